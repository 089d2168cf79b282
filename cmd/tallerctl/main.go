// tallerctl tareas de operación: migraciones, conciliación, alertas y tokens de prueba.
//
// Uso: go run ./cmd/tallerctl <comando>
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
