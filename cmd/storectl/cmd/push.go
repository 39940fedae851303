// cmd/storectl/cmd/push.go
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"storesync/cmd/storectl/cmd/types"
	"storesync/internal/app/agent"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Отправить outbox в центральную систему",
	Long: `Отправляет накопленные снимки одним синк-батчем.

Сервер сравнивает каждый снимок с канонической записью и фиксирует
конфликты по расходящимся полям. Совпадающие пары конфликтом не станут.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.AgentAppKey).(*agent.App)
		if app == nil {
			return fmt.Errorf("агент не инициализирован")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		fmt.Println("Отправка outbox...")
		result, err := app.Push(ctx)
		if err != nil {
			return fmt.Errorf("ошибка отправки: %w", err)
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(result)
		}

		if result.Pushed == 0 {
			fmt.Println("Outbox пуст, отправлять нечего.")
			return nil
		}

		fmt.Println()
		fmt.Printf("✅ Батч %s обработан\n", result.BatchID)
		fmt.Printf("  Отправлено снимков: %d\n", result.Pushed)
		fmt.Printf("  Без расхождений:    %d\n", result.InSync)
		fmt.Printf("  Конфликтов:         %d\n", result.Detected)
		if result.Failed > 0 {
			fmt.Printf("  Ошибок:             %d\n", result.Failed)
			for _, e := range result.Errors {
				fmt.Printf("    - %s\n", e)
			}
		}
		if len(result.Conflicts) > 0 {
			fmt.Println()
			fmt.Println("Просмотр очереди: storectl conflicts list")
		}
		return nil
	},
}
