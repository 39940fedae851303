// cmd/storectl/cmd/conflicts/show.go
package conflicts

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"storesync/cmd/storectl/cmd/types"
	"storesync/internal/app/agent"
)

var showTrail bool

var ShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Показать конфликт",
	Long:  `Выводит обе стороны конфликта, расходящиеся поля и, по запросу, аудит-след.`,
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

		c, err := app.GetConflict(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("ошибка запроса: %w", err)
		}

		fmt.Printf("Конфликт #%d — %s/%s [%s]\n", c.ID, c.EntityType, c.EntityID, c.Status)
		fmt.Printf("Обнаружен: %s\n", c.CreatedAt.Format("2006-01-02 15:04:05"))
		if c.SyncBatchID != nil {
			fmt.Printf("Синк-батч: %s\n", *c.SyncBatchID)
		}
		fmt.Println()

		fmt.Println("Расходящиеся поля:")
		for _, field := range c.ConflictingFields {
			local, localOK := c.LocalSnapshot[field]
			remote, remoteOK := c.RemoteSnapshot[field]
			fmt.Printf("  %s:\n", color.CyanString(field))
			fmt.Printf("    магазин (%s): %s\n", c.LocalTimestamp.Format("15:04:05"), formatValue(local, localOK))
			fmt.Printf("    центр   (%s): %s\n", c.RemoteTimestamp.Format("15:04:05"), formatValue(remote, remoteOK))
		}

		if c.ResolvedSnapshot != nil {
			fmt.Println()
			fmt.Println("Разрешение:")
			if c.ResolutionType != nil {
				fmt.Printf("  Политика: %s\n", *c.ResolutionType)
			}
			if c.ResolvedAt != nil {
				fmt.Printf("  Когда: %s\n", c.ResolvedAt.Format("2006-01-02 15:04:05"))
			}
			if c.Notes != nil {
				fmt.Printf("  Заметка: %s\n", *c.Notes)
			}
		}

		if showTrail {
			trail, err := app.ConflictTrail(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("ошибка запроса аудита: %w", err)
			}
			fmt.Println()
			fmt.Println("Аудит-след:")
			for _, e := range trail.Data {
				fmt.Printf("  %s  %s: %s -> %s", e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.OldStatus, e.NewStatus)
				if e.Details != nil {
					fmt.Printf("  (%s)", *e.Details)
				}
				fmt.Println()
			}
		}

		return nil
	},
}

func formatValue(v any, present bool) string {
	if !present {
		return color.HiBlackString("<отсутствует>")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func init() {
	ShowCmd.Flags().BoolVar(&showTrail, "audit", false, "показать аудит-след")
}
