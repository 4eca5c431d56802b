package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"

	"github.com/shopweave/go-storefront-identity/idp"
	"github.com/shopweave/go-storefront-identity/idp/idpfakes"
	"github.com/shopweave/go-storefront-identity/intent"
	"github.com/shopweave/go-storefront-identity/intent/repofakes"
	"github.com/shopweave/go-storefront-identity/internal/config"
	"github.com/shopweave/go-storefront-identity/profile"
	"github.com/shopweave/go-storefront-identity/profile/profilefakes"
	"github.com/shopweave/go-storefront-identity/returnpath"
	"github.com/shopweave/go-storefront-identity/server"
	"github.com/shopweave/go-storefront-identity/server/authflow"
	"github.com/shopweave/go-storefront-identity/server/visitor"
	"github.com/shopweave/go-storefront-identity/shops"
	"github.com/shopweave/go-storefront-identity/users"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	provider, fetcher, err := identityStack(c)
	if err != nil {
		return fmt.Errorf("identityStack: %w", err)
	}

	intents, err := intent.NewStore(repofakes.NewFakeIntentRepo())
	if err != nil {
		return fmt.Errorf("intent.NewStore: %w", err)
	}

	srv, err := server.New(c, server.Deps{
		Idp:      provider,
		Fetcher:  fetcher,
		Visitors: visitor.NewInMemoryRepo(),
		Intents:  intents,
		Flows:    authflow.NewInMemoryRepo(),
	})
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// identityStack wires the external identity provider and profile endpoint. In
// DEV with no issuer configured, an in-memory provider with a seeded demo shop
// owner stands in so the full login flow works locally.
func identityStack(c config.Config) (idp.Provider, profile.Fetcher, error) {
	if c.GetIdpIssuer() != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		provider, err := idp.NewOIDCClient(ctx, idp.OIDCConfig{
			Issuer:       c.GetIdpIssuer(),
			ClientID:     c.GetIdpClientID(),
			ClientSecret: c.GetIdpClientSecret(),
			RedirectURL:  c.GetBaseURL() + "/" + returnpath.CallbackSegment,
			SignupURL:    c.GetIdpSignupURL(),
			RevokeURL:    c.GetIdpRevokeURL(),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("idp.NewOIDCClient: %w", err)
		}

		fetcher, err := profile.NewHTTPFetcher(c.GetProfileEndpoint())
		if err != nil {
			return nil, nil, fmt.Errorf("profile.NewHTTPFetcher: %w", err)
		}
		return provider, fetcher, nil
	}

	if c.GetEnv() != "DEV" {
		return nil, nil, errors.New("IDP_ISSUER must be configured outside DEV")
	}
	return devIdentityStack()
}

func devIdentityStack() (idp.Provider, profile.Fetcher, error) {
	provider := idpfakes.NewFakeProvider()
	fetcher := profilefakes.NewFakeFetcher()

	directory := map[string]*profile.Payload{
		"owner@demo.shop": {
			User:         &users.User{ID: "user-1", Email: "owner@demo.shop", Role: shops.RoleCustomer},
			Memberships:  []shops.Membership{{ShopID: "shop-1", Slug: "demo-shop", Name: "Demo Shop", Role: shops.RoleAdmin, Status: shops.StatusActive}},
			LastShopSlug: "demo-shop",
		},
	}
	provider.IssueHook = func(email, accessToken string) {
		if payload, ok := directory[email]; ok {
			fetcher.SetPayload(accessToken, payload)
		}
	}
	if err := provider.Seed("owner@demo.shop", "Password1"); err != nil {
		return nil, nil, fmt.Errorf("seed dev identity: %w", err)
	}

	log.Printf("DEV identity stack active (owner@demo.shop / Password1)\n")
	return provider, fetcher, nil
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
