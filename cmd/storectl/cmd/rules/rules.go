package rules

import (
	"github.com/spf13/cobra"
)

// RulesCmd - родительская команда для управления правилами разрешения
var RulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Управление правилами разрешения",
	Long: `Просмотр и настройка правил разрешения конфликтов.

Правило для конкретного свойства перекрывает дефолт типа сущности,
тот — глобальный last_write_wins.`,
}
