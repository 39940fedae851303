// cmd/storectl/cmd/capture.go
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"storesync/cmd/storectl/cmd/types"
	"storesync/internal/app/agent"
	"storesync/internal/domain/conflict"
)

var (
	captureFile string
)

var captureCmd = &cobra.Command{
	Use:   "capture <entity-type> <entity-id>",
	Short: "Зафиксировать снимок сущности в outbox",
	Long: `Фиксирует текущее состояние сущности в локальном outbox.

Снимок передается JSON-объектом через --file или stdin. Повторный
capture той же сущности до push заменяет неотправленный снимок.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value(types.AgentAppKey).(*agent.App)
		if app == nil {
			return fmt.Errorf("агент не инициализирован")
		}

		var raw []byte
		var err error
		if captureFile != "" {
			raw, err = os.ReadFile(captureFile)
		} else {
			raw, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return fmt.Errorf("ошибка чтения снимка: %w", err)
		}

		snapshot, err := conflict.DecodeSnapshot(raw)
		if err != nil {
			return fmt.Errorf("снимок должен быть JSON-объектом: %w", err)
		}

		if err := app.Capture(args[0], args[1], snapshot); err != nil {
			return fmt.Errorf("ошибка фиксации снимка: %w", err)
		}

		fmt.Printf("✓ Снимок %s/%s зафиксирован\n", args[0], args[1])
		return nil
	},
}

func init() {
	captureCmd.Flags().StringVarP(&captureFile, "file", "f", "", "файл со снимком в JSON")
}
