// cmd/storectl/cmd/conflicts/bulk.go
package conflicts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"storesync/cmd/storectl/cmd/types"
	"storesync/internal/app/agent"
)

var (
	bulkResolution string
	bulkNotes      string
)

var BulkCmd = &cobra.Command{
	Use:   "bulk <id,id,...>",
	Short: "Массовое разрешение одной политикой",
	Long: `Применяет одну политику разрешения к перечисленным конфликтам.

Уже финализированные конфликты пропускаются и в счетчик не попадают.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value(types.AgentAppKey).(*agent.App)
		if app == nil {
			return fmt.Errorf("агент не инициализирован")
		}

		parts := strings.Split(args[0], ",")
		ids := make([]int64, 0, len(parts))
		for _, p := range parts {
			id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
			if err != nil {
				return fmt.Errorf("идентификатор %q должен быть числом: %w", p, err)
			}
			ids = append(ids, id)
		}

		result, err := app.BulkResolve(cmd.Context(), ids, bulkResolution, bulkNotes)
		if err != nil {
			return fmt.Errorf("ошибка массового разрешения: %w", err)
		}
		if result.Status != "Ok" {
			return fmt.Errorf("массовое разрешение отклонено: %s", result.Error)
		}

		fmt.Printf("✅ Разрешено конфликтов: %d из %d\n", result.Count, len(ids))
		return nil
	},
}

func init() {
	BulkCmd.Flags().StringVarP(&bulkResolution, "resolution", "r", "", "политика (local_wins|remote_wins|last_write_wins|merge)")
	BulkCmd.Flags().StringVarP(&bulkNotes, "notes", "n", "", "заметка оператора")
	_ = BulkCmd.MarkFlagRequired("resolution")
}
