package cmd

import (
	"fmt"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardsheet/internal/config"
	"github.com/arcanaland/cardsheet/internal/validator"
)

var (
	validateLayout   layoutFlags
	validateInput    string
	validateTemplate string
	validateDocument string
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a deck and its card template before printing",
	Long: `Validate loads a deck and the card template it will be printed with, and reports
problems that would spoil the print: duplicate card IDs, missing template blocks,
a grid that rows cannot fill, template tokens no card field provides, a document
template with nowhere to put the cards, and partially filled sheets.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := loggerFromContext(cmd.Context())

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		deckPath, err := config.GetDeckPath(validateInput)
		if err != nil {
			return err
		}

		templatePath := cfg.Template
		if cmd.Flags().Changed("template") {
			templatePath = validateTemplate
		}

		v := validator.NewValidator(deckPath, templatePath, validateLayout.options(cmd, cfg, logger))
		v.DocumentPath = cfg.DocumentTemplate
		if cmd.Flags().Changed("document") {
			v.DocumentPath = validateDocument
		}
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}

		// Display validation results
		fmt.Println("Validation Results:")
		fmt.Println("-------------------")

		if results.OK() {
			fmt.Println(colorize.GreenString("✅ Deck '%s' is ready to print.", deckPath))
		} else {
			fmt.Println(colorize.RedString("❌ Deck '%s' has %d validation errors:", deckPath, len(results.Errors)))
			for i, err := range results.Errors {
				fmt.Printf("%d. %s\n", i+1, err)
			}
		}

		if len(results.Warnings) > 0 {
			fmt.Println(colorize.YellowString("\nWarnings:"))
			for i, warn := range results.Warnings {
				fmt.Printf("%d. %s\n", i+1, warn)
			}
		}

		if !results.OK() {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "deck file or deck library name")
	validateCmd.Flags().StringVarP(&validateTemplate, "template", "t", "", "card template file (default: built-in)")
	validateCmd.Flags().StringVar(&validateDocument, "document", "", "document template file (default: built-in)")
	validateLayout.register(validateCmd)

	_ = validateCmd.MarkFlagRequired("input")
}
