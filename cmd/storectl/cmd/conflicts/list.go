// cmd/storectl/cmd/conflicts/list.go
package conflicts

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"storesync/cmd/storectl/cmd/types"
	"storesync/internal/app/agent"
)

var (
	listStatus string
	listLimit  int
	listOffset int
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список конфликтов",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.AgentAppKey).(*agent.App)
		if app == nil {
			return fmt.Errorf("агент не инициализирован")
		}

		conflicts, err := app.ListConflicts(cmd.Context(), listStatus, listLimit, listOffset)
		if err != nil {
			return fmt.Errorf("ошибка запроса: %w", err)
		}

		if len(conflicts) == 0 {
			fmt.Println("Конфликтов нет.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tСУЩНОСТЬ\tПОЛЯ\tСТАТУС\tОБНАРУЖЕН")
		for _, c := range conflicts {
			status := string(c.Status)
			switch c.Status {
			case "pending":
				status = color.YellowString(status)
			case "resolved":
				status = color.GreenString(status)
			case "ignored":
				status = color.HiBlackString(status)
			}
			fmt.Fprintf(w, "%d\t%s/%s\t%d\t%s\t%s\n",
				c.ID, c.EntityType, c.EntityID, len(c.ConflictingFields),
				status, c.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func init() {
	ListCmd.Flags().StringVarP(&listStatus, "status", "s", "", "фильтр по статусу (pending|resolved|ignored)")
	ListCmd.Flags().IntVar(&listLimit, "limit", 100, "максимум строк")
	ListCmd.Flags().IntVar(&listOffset, "offset", 0, "смещение выборки")
}
