package auth

import (
	"github.com/spf13/cobra"
)

// AuthCmd - родительская команда для операций с учетной записью оператора
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Управление учетной записью оператора",
	Long:  `Регистрация и вход оператора магазина.`,
}
