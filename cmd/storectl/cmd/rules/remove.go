// cmd/storectl/cmd/rules/remove.go
package rules

import (
	"fmt"

	"github.com/spf13/cobra"

	"storesync/cmd/storectl/cmd/types"
	"storesync/internal/app/agent"
)

var removeProperty string

var RemoveCmd = &cobra.Command{
	Use:   "remove <entity-type>",
	Short: "Удалить правило",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value(types.AgentAppKey).(*agent.App)
		if app == nil {
			return fmt.Errorf("агент не инициализирован")
		}

		removed, err := app.DeleteRule(cmd.Context(), args[0], removeProperty)
		if err != nil {
			return fmt.Errorf("ошибка удаления правила: %w", err)
		}

		if !removed {
			fmt.Println("Такого правила не было.")
			return nil
		}
		fmt.Println("✓ Правило удалено")
		return nil
	},
}

func init() {
	RemoveCmd.Flags().StringVarP(&removeProperty, "property", "p", "", "свойство сущности")
}
