package llm

import (
	"strings"

	"github.com/manimatic/manimatic/prompt"
)

// GeneratePlan renders the planner template with the user's request and asks
// the model for an animation plan. If the template carries no {user_prompt}
// placeholder the raw request is appended as a labeled suffix, so the prompt
// sent to the model always contains the request verbatim. Whatever text
// comes back is the plan; the response shape is not validated.
func GeneratePlan(client LlmClient, loader *prompt.Loader, userPrompt string) (string, Usage, error) {
	template, err := loader.Template(prompt.PlannerKey)
	if err != nil {
		return "", Usage{}, err
	}

	full := prompt.Render(template, map[string]string{
		"user_prompt": userPrompt,
	})
	if !strings.Contains(template, "{user_prompt}") {
		full = full + "\n\nUser Request: " + userPrompt
	}

	return client.GetCompletion(full)
}

// GenerateSceneCode renders the code-generation template with the class
// name, the plan, and the original request, and asks the model for scene
// code. The plan binds to both {animation_plan} and {plan_output} so either
// placeholder spelling works in a template.
func GenerateSceneCode(client LlmClient, loader *prompt.Loader, plan, userPrompt, className string) (string, Usage, error) {
	template, err := loader.Template(prompt.CodeGenKey)
	if err != nil {
		return "", Usage{}, err
	}

	full := prompt.Render(template, map[string]string{
		"class_name":     className,
		"animation_plan": plan,
		"plan_output":    plan,
		"user_prompt":    userPrompt,
	})

	return client.GetCompletion(full)
}
