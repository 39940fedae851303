// cmd/storectl/cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"storesync/cmd/storectl/cmd/types"
	"storesync/internal/app/agent"
	"storesync/internal/app/agent/config"
	"storesync/internal/utils/logger"
)

var (
	cfg        *config.Config
	log        *slog.Logger
	app        *agent.App
	jsonOutput bool
	serverURL  string
	storeID    string
)

var rootCmd = &cobra.Command{
	Use:   "storectl",
	Short: "StoreSync - агент синхронизации магазина",
	Long: `StoreSync — агент точки продаж для центральной системы управления.

Агент фиксирует снимки товаров, категорий и сотрудников в локальном
outbox, отправляет их в центральную систему и дает оператору доступ
к очереди конфликтов и правилам их разрешения.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg = config.MustLoad()

	// Переопределяем настройки из флагов командной строки
	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}
	if storeID != "" {
		cfg.StoreID = storeID
	}

	log = logger.New(cfg.Env)

	var err error
	app, err = agent.New(cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации агента: %w", err)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), types.AgentAppKey, app))
	return nil
}

func init() {
	cobra.OnInitialize()

	// Глобальные флаги
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "адрес сервера StoreSync")
	rootCmd.PersistentFlags().StringVar(&storeID, "store", "", "идентификатор магазина")
}
