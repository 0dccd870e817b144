package llm

import (
	"strings"
	"testing"

	"github.com/manimatic/manimatic/prompt"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingClient records every prompt it is asked to complete.
type capturingClient struct {
	prompts  []string
	response string
	usage    Usage
}

func (c *capturingClient) GetCompletion(p string) (string, Usage, error) {
	c.prompts = append(c.prompts, p)
	return c.response, c.usage, nil
}

func newTestLoader(t *testing.T, planner, codeGen string) *prompt.Loader {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "prompts/planner_system_prompt.txt", []byte(planner), 0644))
	require.NoError(t, afero.WriteFile(fsys, "prompts/code_gen_system_prompt.txt", []byte(codeGen), 0644))
	return prompt.NewLoader(fsys, "prompts")
}

func TestGeneratePlanSubstitutesRequest(t *testing.T) {
	client := &capturingClient{response: "the plan", usage: Usage{InputTokens: 10, OutputTokens: 20}}
	loader := newTestLoader(t, "Plan this animation: {user_prompt}. Do it twice: {user_prompt}.", "")

	plan, usage, err := GeneratePlan(client, loader, "a blue circle")
	require.NoError(t, err)
	assert.Equal(t, "the plan", plan)
	assert.Equal(t, Usage{InputTokens: 10, OutputTokens: 20}, usage)

	require.Len(t, client.prompts, 1)
	assert.Equal(t, 2, strings.Count(client.prompts[0], "a blue circle"))
	assert.NotContains(t, client.prompts[0], "{user_prompt}")
}

func TestGeneratePlanAppendsRequestWhenPlaceholderMissing(t *testing.T) {
	client := &capturingClient{response: "the plan"}
	loader := newTestLoader(t, "You plan animations.", "")

	_, _, err := GeneratePlan(client, loader, "a blue circle")
	require.NoError(t, err)

	require.Len(t, client.prompts, 1)
	// The prompt sent to the model always contains the request verbatim.
	assert.Contains(t, client.prompts[0], "User Request: a blue circle")
}

func TestGenerateSceneCodeSubstitutions(t *testing.T) {
	client := &capturingClient{response: "code"}
	loader := newTestLoader(t, "", "Class: {class_name}\nPlan: {animation_plan}\nAlso: {plan_output}\nFrom: {user_prompt}")

	_, _, err := GenerateSceneCode(client, loader, "step one, step two", "a blue circle", "GeneratedScene_20240102_150405")
	require.NoError(t, err)

	require.Len(t, client.prompts, 1)
	sent := client.prompts[0]
	assert.Contains(t, sent, "Class: GeneratedScene_20240102_150405")
	assert.Contains(t, sent, "Plan: step one, step two")
	assert.Contains(t, sent, "Also: step one, step two")
	assert.Contains(t, sent, "From: a blue circle")
}

func TestGeneratePlanLoaderError(t *testing.T) {
	client := &capturingClient{}
	fsys := afero.NewMemMapFs()
	loader := prompt.NewLoader(fsys, "prompts")

	_, _, err := GeneratePlan(client, loader, "a blue circle")
	require.Error(t, err)
	assert.Empty(t, client.prompts)
}

func TestEnsureBatchID(t *testing.T) {
	generated := EnsureBatchID("not-hex")
	assert.Len(t, generated, 24)
	assert.Equal(t, generated, EnsureBatchID(generated))
}
