package conflicts

import (
	"github.com/spf13/cobra"
)

// ConflictsCmd - родительская команда для работы с очередью конфликтов
var ConflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Работа с очередью конфликтов",
	Long:  `Просмотр, разрешение и игнорирование конфликтов синхронизации.`,
}
