// Command notify posts a toast to a running dashboard.
//
//	notify -title "Order filled" -message "BTC long @ 64,210" -level success
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/betbot/gobet-dashboard/internal/notify"
	"github.com/betbot/gobet-dashboard/pkg/notifyclient"
)

func main() {
	_ = godotenv.Load()

	getenv := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return def
	}

	var (
		serverURL = flag.String("server", getenv("DASH_URL", "http://localhost:3000"), "dashboard base URL")
		level     = flag.String("level", "info", "info, success, warning or error")
		title     = flag.String("title", "", "toast title (required)")
		message   = flag.String("message", "", "toast body; basic inline HTML is kept")
		duration  = flag.Duration("duration", 0, "how long the toast stays visible (0 = server default)")
		timeout   = flag.Duration("timeout", 10*time.Second, "request timeout")
	)
	flag.Parse()

	if *title == "" {
		fmt.Fprintln(os.Stderr, "notify: -title is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	toast, err := notifyclient.New(*serverURL).Send(ctx, notifyclient.Request{
		Level:    notify.Level(*level),
		Title:    *title,
		Message:  *message,
		Duration: *duration,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "notify: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("sent %s (%s)\n", toast.ID, toast.Level)
}
