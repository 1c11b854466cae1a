// Package main implements a mock retailer server for local development.
// It serves product pages with schema.org offer markup so the tracker
// can be exercised end to end without hitting real retailers.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

const pageTemplate = `<html>
<head>
<meta property="og:image" content="%s"/>
<script type="application/ld+json">
{"@type":"Product","name":"Mock Widget","offers":{"price":"%.2f","availability":"https://schema.org/%s"}}
</script>
</head>
<body>
<h1>Mock Widget</h1>
<span class="price">$%.2f</span>
<button%s>Add to Cart</button>
</body>
</html>
`

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	price := flag.Float64("price", 399.00, "price served on the in-stock page")
	image := flag.String("image", "https://example.com/widget.jpg", "product image URL")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /product", productHandler(*price, *image, true))
	mux.HandleFunc("GET /product/oos", productHandler(*price, *image, false))
	mux.HandleFunc("GET /blocked", blockedHandler(*price, *image))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock retailer server", "addr", addr, "price", *price)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "ua", r.UserAgent())
		next.ServeHTTP(w, r)
	})
}

func renderPage(price float64, image string, inStock bool) string {
	availability := "InStock"
	disabled := ""
	if !inStock {
		availability = "OutOfStock"
		disabled = " disabled"
	}
	return fmt.Sprintf(pageTemplate, image, price, availability, price, disabled)
}

func productHandler(price float64, image string, inStock bool) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, renderPage(price, image, inStock)) //nolint:errcheck // best-effort write in mock server
	}
}

// blockedHandler simulates a retailer that rejects desktop browsers but
// serves mobile ones, for exercising the identity-fallback retry.
func blockedHandler(price float64, image string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.UserAgent(), "iPhone") {
			http.Error(w, "access denied", http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, renderPage(price, image, true)) //nolint:errcheck // best-effort write in mock server
	}
}
