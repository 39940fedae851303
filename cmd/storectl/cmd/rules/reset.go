// cmd/storectl/cmd/rules/reset.go
package rules

import (
	"fmt"

	"github.com/spf13/cobra"

	"storesync/cmd/storectl/cmd/types"
	"storesync/internal/app/agent"
)

var ResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Сбросить все правила",
	Long:  `Удаляет все настроенные правила; остается глобальный last_write_wins.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.AgentAppKey).(*agent.App)
		if app == nil {
			return fmt.Errorf("агент не инициализирован")
		}

		if err := app.ResetRules(cmd.Context()); err != nil {
			return fmt.Errorf("ошибка сброса правил: %w", err)
		}

		fmt.Println("✓ Правила сброшены")
		return nil
	},
}
