// cmd/storectl/cmd/init.go
package cmd

import (
	"storesync/cmd/storectl/cmd/auth"
	"storesync/cmd/storectl/cmd/conflicts"
	"storesync/cmd/storectl/cmd/rules"
)

func init() {
	// Команды учетной записи
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)

	// Локальный outbox
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(purgeCmd)

	// Очередь конфликтов
	rootCmd.AddCommand(conflicts.ConflictsCmd)
	conflicts.ConflictsCmd.AddCommand(conflicts.ListCmd)
	conflicts.ConflictsCmd.AddCommand(conflicts.ShowCmd)
	conflicts.ConflictsCmd.AddCommand(conflicts.ResolveCmd)
	conflicts.ConflictsCmd.AddCommand(conflicts.IgnoreCmd)
	conflicts.ConflictsCmd.AddCommand(conflicts.BulkCmd)

	// Правила разрешения
	rootCmd.AddCommand(rules.RulesCmd)
	rules.RulesCmd.AddCommand(rules.ListCmd)
	rules.RulesCmd.AddCommand(rules.SetCmd)
	rules.RulesCmd.AddCommand(rules.RemoveCmd)
	rules.RulesCmd.AddCommand(rules.ResetCmd)
}
