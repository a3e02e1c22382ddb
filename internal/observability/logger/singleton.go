package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Init construye el logger global a partir de la config. Llamadas
// posteriores son no-ops; se invoca una sola vez desde main.
func Init(cfg Config) {
	once.Do(func() {
		instance = build(cfg)
	})
}

// L devuelve el logger global. Sin Init previo arranca uno de desarrollo
// en nivel info, para que los tests y tooling no necesiten bootstrap.
func L() *zap.Logger {
	if instance == nil {
		Init(Config{Env: "dev", Level: "info"})
	}
	return instance
}

// Named devuelve el logger global etiquetado con un nombre de componente.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// With devuelve el logger global con campos fijos adicionales.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Sync descarga los buffers pendientes; va en un defer de main.
func Sync() error {
	if instance != nil {
		return instance.Sync()
	}
	return nil
}
