package middleware

import "github.com/danielgtaylor/huma/v2"

// Container накапливает middleware для очередного хендлера и отдает их
// одним срезом. После GetAllAndClear контейнер пуст и готов к следующему.
type Container struct {
	middlewares huma.Middlewares
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Add(mw func(huma.Context, func(huma.Context))) *Container {
	c.middlewares = append(c.middlewares, mw)
	return c
}

func (c *Container) GetAllAndClear() huma.Middlewares {
	all := c.middlewares
	c.middlewares = nil
	return all
}
