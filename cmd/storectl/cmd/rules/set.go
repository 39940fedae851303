// cmd/storectl/cmd/rules/set.go
package rules

import (
	"fmt"

	"github.com/spf13/cobra"

	"storesync/cmd/storectl/cmd/types"
	"storesync/internal/app/agent"
)

var setProperty string

var SetCmd = &cobra.Command{
	Use:   "set <entity-type> <resolution-type>",
	Short: "Создать или обновить правило",
	Long: `Задает политику разрешения для типа сущности.

С флагом --property правило действует только на одно свойство.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value(types.AgentAppKey).(*agent.App)
		if app == nil {
			return fmt.Errorf("агент не инициализирован")
		}

		if err := app.PutRule(cmd.Context(), args[0], setProperty, args[1]); err != nil {
			return fmt.Errorf("ошибка сохранения правила: %w", err)
		}

		if setProperty != "" {
			fmt.Printf("✓ Правило %s.%s = %s\n", args[0], setProperty, args[1])
		} else {
			fmt.Printf("✓ Дефолт %s = %s\n", args[0], args[1])
		}
		return nil
	},
}

func init() {
	SetCmd.Flags().StringVarP(&setProperty, "property", "p", "", "свойство сущности")
}
