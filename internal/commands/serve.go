package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/awesome-arjun11/youtube-image-embed/internal/urlutil"
)

type Serve struct {
	CommonFlags
	Port int `help:"Port to listen on" env:"YTIE_PORT" short:"p" default:"8080"`
}

func (c *Serve) Run() error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := c.newApp(ctx, c.Port)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = a.Server.Shutdown(shutdownCtx)
	}()

	fmt.Printf(
		"(<<) Listening on %s...\n",
		urlutil.FormatServerAddress(a.Server.Addr),
	)
	err = a.Server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
