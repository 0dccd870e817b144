package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/manimatic/manimatic/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "manimatic",
	Short: "Manimatic turns natural-language prompts into rendered animations",
	Long:  `Manimatic asks an LLM for an animation plan and Manim scene code, then renders the result to video with the manim CLI.`,
}

var genCmd = &cobra.Command{
	Use:   "gen [prompt]",
	Short: "Generate and render an animation from a prompt",
	Run: func(cmd *cobra.Command, args []string) {
		flags, err := parseGenFlags(cmd)
		if err != nil {
			fmt.Printf("Error parsing flags: %v\n", err)
			os.Exit(1)
		}

		model, err := newGenerateModel(strings.Join(args, " "), flags)
		if err != nil {
			fmt.Printf("Error initializing model: %v\n", err)
			os.Exit(1)
		}

		p := tea.NewProgram(model)
		if _, err := p.Run(); err != nil {
			fmt.Printf("Error running program: %v\n", err)
			os.Exit(1)
		}

		model.Shutdown()
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent generation runs",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := cmd.Flags().GetString("db")
		if err != nil {
			fmt.Printf("Error parsing flags: %v\n", err)
			os.Exit(1)
		}
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			fmt.Printf("Error parsing flags: %v\n", err)
			os.Exit(1)
		}

		runs, err := store.NewSQLiteStore(db)
		if err != nil {
			fmt.Printf("Error opening run history: %v\n", err)
			os.Exit(1)
		}
		defer runs.Close()

		records, err := runs.RecentRuns(limit)
		if err != nil {
			fmt.Printf("Error reading run history: %v\n", err)
			os.Exit(1)
		}
		if len(records) == 0 {
			fmt.Println("No runs recorded yet.")
			return
		}

		okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
		failStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFBA08"))
		faint := lipgloss.NewStyle().Faint(true)

		for _, r := range records {
			status := okStyle.Render("ok  ")
			detail := r.VideoPath
			if !r.Success {
				status = failStyle.Render("fail")
				detail = r.Error
			}
			fmt.Printf("%s  %s  %s\n      %s\n      %s\n",
				status,
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				r.Prompt,
				detail,
				faint.Render(fmt.Sprintf("%d tokens, $%.4f", r.TotalTokens, r.TotalCostUSD)),
			)
		}
	},
}

func init() {
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(historyCmd)

	genCmd.Flags().StringP("model", "m", "", "Override the model name for this run")
	genCmd.Flags().StringP("config", "c", "", "Path to custom configuration file")
	genCmd.Flags().String("db", "", "Path to the run-history database")

	historyCmd.Flags().String("db", "manimatic.db", "Path to the run-history database")
	historyCmd.Flags().IntP("limit", "n", 20, "How many runs to show")
}

func parseGenFlags(cmd *cobra.Command) (genFlags, error) {
	model, err := cmd.Flags().GetString("model")
	if err != nil {
		return genFlags{}, err
	}

	config, err := cmd.Flags().GetString("config")
	if err != nil {
		return genFlags{}, err
	}

	db, err := cmd.Flags().GetString("db")
	if err != nil {
		return genFlags{}, err
	}

	return genFlags{
		model:  model,
		config: config,
		db:     db,
	}, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
