// cmd/storectl/cmd/rules/list.go
package rules

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storesync/cmd/storectl/cmd/types"
	"storesync/internal/app/agent"
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список правил",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.AgentAppKey).(*agent.App)
		if app == nil {
			return fmt.Errorf("агент не инициализирован")
		}

		rules, err := app.ListRules(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка запроса: %w", err)
		}

		if len(rules) == 0 {
			fmt.Println("Настроенных правил нет, действует глобальный last_write_wins.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "СУЩНОСТЬ\tСВОЙСТВО\tПОЛИТИКА")
		for _, r := range rules {
			property := r.Property
			if property == "" {
				property = "<дефолт типа>"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.EntityType, property, r.Type)
		}
		return w.Flush()
	},
}
