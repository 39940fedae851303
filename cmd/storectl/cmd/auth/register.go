// cmd/storectl/cmd/auth/register.go
package auth

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"storesync/cmd/storectl/cmd/types"
	"storesync/internal/app/agent"
)

var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Зарегистрировать оператора",
	Long: `Регистрация оператора на сервере StoreSync.

После регистрации оператор может работать с очередью конфликтов.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.AgentAppKey).(*agent.App)
		if app == nil {
			return fmt.Errorf("агент не инициализирован")
		}

		fmt.Println("=== Регистрация оператора ===")
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

		fmt.Print("Повторите пароль: ")
		passwordConfirm, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения пароля: %w", err)
		}
		fmt.Println()

		if string(password) != string(passwordConfirm) {
			return fmt.Errorf("пароли не совпадают")
		}

		fmt.Println("Регистрация...")
		userID, err := app.Register(cmd.Context(), login, string(password))
		if err != nil {
			return fmt.Errorf("ошибка регистрации: %w", err)
		}

		fmt.Println()
		fmt.Printf("✅ Регистрация завершена, оператор #%d\n", userID)
		fmt.Println("Теперь войдите в систему: storectl auth login")

		return nil
	},
}
