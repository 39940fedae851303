package rule

import "context"

// Repository — персистентное хранилище правил. Store остается источником
// истины в памяти, репозиторий догружает правила при старте и принимает
// сквозную запись изменений.
type Repository interface {
	List(ctx context.Context) ([]Rule, error)
	Upsert(ctx context.Context, r Rule) error
	Delete(ctx context.Context, key Key) (bool, error)
	DeleteAll(ctx context.Context) error
}
