// cmd/storectl/cmd/conflicts/ignore.go
package conflicts

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"storesync/cmd/storectl/cmd/types"
	"storesync/internal/app/agent"
)

var ignoreNotes string

var IgnoreCmd = &cobra.Command{
	Use:   "ignore <id>",
	Short: "Игнорировать конфликт",
	Long:  `Переводит конфликт в ignored. Каноническая запись не меняется.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value(types.AgentAppKey).(*agent.App)
		if app == nil {
			return fmt.Errorf("агент не инициализирован")
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("идентификатор должен быть числом: %w", err)
		}

		result, err := app.IgnoreConflict(cmd.Context(), id, ignoreNotes)
		if err != nil {
			return fmt.Errorf("ошибка игнорирования: %w", err)
		}
		if result.Status != "Ok" {
			return fmt.Errorf("игнорирование отклонено: %s", result.Error)
		}

		if result.AlreadyResolved {
			fmt.Println("Конфликт уже был финализирован ранее.")
			return nil
		}
		fmt.Printf("✓ Конфликт #%d игнорирован\n", id)
		return nil
	},
}

func init() {
	IgnoreCmd.Flags().StringVarP(&ignoreNotes, "notes", "n", "", "заметка оператора")
}
