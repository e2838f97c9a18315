package mock

import "github.com/fwojciec/sitevec"

var _ sitevec.Converter = (*Converter)(nil)

// Converter is a mock implementation of sitevec.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
	ExtFn     func() string
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

func (c *Converter) Ext() string {
	return c.ExtFn()
}
