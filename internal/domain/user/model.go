package user

import "time"

// User — учетная запись оператора бэк-офиса. Ручные действия над
// конфликтами атрибутируются этим id в аудит-следе.
type User struct {
	ID        int64
	Login     string
	Password  string // bcrypt-хэш
	CreatedAt time.Time
}
