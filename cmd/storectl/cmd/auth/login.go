// cmd/storectl/cmd/auth/login.go
package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"storesync/cmd/storectl/cmd/types"
	"storesync/internal/app/agent"
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти в систему StoreSync",
	Long: `Аутентификация оператора на сервере StoreSync.

После входа токен сохраняется локально для последующих операций.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.AgentAppKey).(*agent.App)
		if app == nil {
			return fmt.Errorf("агент не инициализирован")
		}

		fmt.Println("=== Вход в систему ===")
		fmt.Println()

		fmt.Print("Login: ")
		var login string
		_, _ = fmt.Scanln(&login)

		fmt.Print("Пароль: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения пароля: %w", err)
		}
		fmt.Println()

		fmt.Println("Аутентификация...")
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.Login(ctx, login, string(password)); err != nil {
			return fmt.Errorf("ошибка аутентификации: %w", err)
		}

		fmt.Println()
		fmt.Println("✅ Вход выполнен успешно!")
		return nil
	},
}
