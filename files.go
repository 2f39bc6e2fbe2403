package auth

import (
	"embed"
	"io"
	"io/fs"
	"net/http"
	"reflect"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

//go:embed views
var viewsFS embed.FS

// GetMigrationsFS returns the migration files for this package
func GetMigrationsFS() fs.FS {
	sub, err := fs.Sub(migrationsFS, "data/sql/migrations")
	if err != nil {
		return migrationsFS
	}
	return sub
}

// GetViewsFS returns the auth page templates
func GetViewsFS() embed.FS {
	return viewsFS
}

// NewViewEngine returns a django engine serving the embedded auth pages
func NewViewEngine() fiber.Views {
	return &viewEngine{
		Engine: django.NewPathForwardingFileSystem(http.FS(viewsFS), "/views", ".html"),
	}
}

// viewEngine accepts router.ViewContext and other string keyed map types,
// the django engine only binds plain maps.
type viewEngine struct {
	*django.Engine
}

func (e *viewEngine) Render(out io.Writer, name string, binding any, layout ...string) error {
	return e.Engine.Render(out, name, toViewBinding(binding), layout...)
}

func toViewBinding(binding any) any {
	switch binding.(type) {
	case nil, map[string]any, fiber.Map:
		return binding
	}

	v := reflect.ValueOf(binding)
	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return binding
	}

	out := make(map[string]any, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out
}
