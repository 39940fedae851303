// cmd/storectl/cmd/purge.go
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"storesync/cmd/storectl/cmd/types"
	"storesync/internal/app/agent"
)

var purgeOlderThan string

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Очистить старые разрешенные конфликты",
	Long: `Удаляет resolved и ignored конфликты, разрешенные раньше границы,
вместе с их аудит-следом. Pending-конфликты не затрагиваются.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.AgentAppKey).(*agent.App)
		if app == nil {
			return fmt.Errorf("агент не инициализирован")
		}

		olderThan, err := time.Parse(time.RFC3339, purgeOlderThan)
		if err != nil {
			return fmt.Errorf("граница должна быть в формате RFC3339: %w", err)
		}

		result, err := app.Purge(cmd.Context(), olderThan)
		if err != nil {
			return fmt.Errorf("ошибка очистки: %w", err)
		}
		if result.Status != "Ok" {
			return fmt.Errorf("очистка отклонена: %s", result.Error)
		}

		fmt.Printf("✓ Удалено конфликтов: %d\n", result.Count)
		return nil
	},
}

func init() {
	purgeCmd.Flags().StringVar(&purgeOlderThan, "older-than", "", "граница очистки в RFC3339")
	_ = purgeCmd.MarkFlagRequired("older-than")
}
