// cmd/storectl/cmd/conflicts/resolve.go
package conflicts

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"storesync/cmd/storectl/cmd/types"
	"storesync/internal/app/agent"
)

var ResolveCmd = &cobra.Command{
	Use:   "resolve <id>",
	Short: "Разрешить конфликт по правилам",
	Long: `Применяет действующие правила разрешения к конфликту.

Если для какого-то поля настроено manual-правило, конфликт остается
в очереди и команда перечисляет поля, ожидающие решения оператора.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value(types.AgentAppKey).(*agent.App)
		if app == nil {
			return fmt.Errorf("агент не инициализирован")
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("идентификатор должен быть числом: %w", err)
		}

		result, err := app.ResolveConflict(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("ошибка разрешения: %w", err)
		}
		if result.Status != "Ok" {
			return fmt.Errorf("разрешение отклонено: %s", result.Error)
		}

		switch {
		case result.ManualRequired:
			fmt.Println("⚠️  Требуется ручное решение по полям:")
			for _, f := range result.ManualFields {
				fmt.Printf("  - %s\n", f)
			}
		case result.AlreadyResolved:
			fmt.Println("Конфликт уже был финализирован ранее.")
		default:
			fmt.Printf("✅ %s\n", result.Message)
		}
		return nil
	},
}
