package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"cinevault/catalog/pkg/model"
	"cinevault/catalog/pkg/testutil"
	"cinevault/pkg/clock"
	"cinevault/pkg/discovery"
	"cinevault/pkg/discovery/memory"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/zap"
)

const (
	catalogServiceName    = "catalog"
	catalogServiceAddress = "localhost:8083"
)

type idResponse struct {
	ID int64 `json:"id"`
}

func main() {
	log.Println("Starting the integration test")

	ctx := context.Background()
	logger := zap.NewNop()
	registry := memory.NewRegistry(logger)
	clk := clock.NewMock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	log.Println("Setting up the catalog service")
	catalog, err := testutil.NewTestCatalog(clk, logger)
	if err != nil {
		log.Fatalf("create catalog: %v", err)
	}
	srv := startCatalogService(ctx, registry, catalog.Handler)
	defer srv.Close()

	addrs, err := registry.ServiceAddresses(ctx, catalogServiceName)
	if err != nil {
		log.Fatalf("resolve catalog: %v", err)
	}
	c := &client{base: "http://" + addrs[0], http: &http.Client{Timeout: 5 * time.Second}}

	log.Println("Creating a user and a movie")
	var user idResponse
	c.must(http.MethodPost, "/users", model.User{Username: "neil", Email: "neil@example.com"}, http.StatusCreated, &user)
	var other idResponse
	c.must(http.MethodPost, "/users", model.User{Username: "vincent", Email: "vincent@example.com"}, http.StatusCreated, &other)
	var movie idResponse
	released := model.NewDate(time.Date(1995, 12, 15, 0, 0, 0, 0, time.UTC))
	c.must(http.MethodPost, "/movies", model.Movie{Title: "Heat", ReleaseDate: &released}, http.StatusCreated, &movie)

	log.Println("Rejecting out of range ratings")
	c.must(http.MethodPost, "/reviews", model.Review{MovieID: movie.ID, UserID: user.ID, Rating: 0}, http.StatusBadRequest, nil)
	c.must(http.MethodPost, "/reviews", model.Review{MovieID: movie.ID, UserID: user.ID, Rating: 11}, http.StatusBadRequest, nil)

	log.Println("Listing reviews before any review exists")
	var views []model.ReviewView
	c.must(http.MethodGet, fmt.Sprintf("/movies/%d/reviews", movie.ID), nil, http.StatusOK, &views)
	if len(views) != 0 {
		log.Fatalf("unexpected reviews: %v", views)
	}

	log.Println("Saving reviews")
	c.must(http.MethodPost, "/reviews", model.Review{MovieID: movie.ID, UserID: user.ID, Rating: 9}, http.StatusCreated, nil)
	clk.Advance(time.Minute)
	c.must(http.MethodPost, "/reviews", model.Review{MovieID: movie.ID, UserID: other.ID, Rating: 4}, http.StatusCreated, nil)

	log.Println("Listing reviews after the writes")
	c.must(http.MethodGet, fmt.Sprintf("/movies/%d/reviews", movie.ID), nil, http.StatusOK, &views)
	want := []model.ReviewView{
		{MovieID: movie.ID, MovieTitle: "Heat", UserID: other.ID, Username: "vincent", Rating: 4},
		{MovieID: movie.ID, MovieTitle: "Heat", UserID: user.ID, Username: "neil", Rating: 9},
	}
	if diff := cmp.Diff(want, views, cmpopts.IgnoreFields(model.ReviewView{}, "ID", "CreatedAt")); diff != "" {
		log.Fatalf("reviews mismatch: %v", diff)
	}

	log.Println("Reconciling movie stats")
	c.must(http.MethodGet, fmt.Sprintf("/movies/%d/stats", movie.ID), nil, http.StatusNotFound, nil)
	if err := catalog.ReconcileStats(ctx); err != nil {
		log.Fatalf("reconcile stats: %v", err)
	}
	var stat model.MovieStat
	c.must(http.MethodGet, fmt.Sprintf("/movies/%d/stats", movie.ID), nil, http.StatusOK, &stat)
	if stat.AverageRating != 6.5 || stat.ReviewCount != 2 || stat.MovieWasDeleted {
		log.Fatalf("unexpected stat: %+v", stat)
	}

	log.Println("Sweeping stale movies")
	if n, err := catalog.SweepStale(ctx); err != nil || n != 0 {
		log.Fatalf("sweep with recent reviews: flagged %d, err %v", n, err)
	}
	clk.Set(time.Date(2028, 6, 1, 12, 0, 0, 0, time.UTC))
	if n, err := catalog.SweepStale(ctx); err != nil || n != 1 {
		log.Fatalf("sweep with old reviews: flagged %d, err %v", n, err)
	}
	c.must(http.MethodGet, fmt.Sprintf("/movies/%d", movie.ID), nil, http.StatusNotFound, nil)

	if err := catalog.ReconcileStats(ctx); err != nil {
		log.Fatalf("reconcile stats: %v", err)
	}
	c.must(http.MethodGet, fmt.Sprintf("/movies/%d/stats", movie.ID), nil, http.StatusOK, &stat)
	if !stat.MovieWasDeleted {
		log.Fatalf("stat not flagged deleted: %+v", stat)
	}

	log.Println("Integration test execution successful")
}

type client struct {
	base string
	http *http.Client
}

func (c *client) must(method, path string, body any, wantStatus int, out any) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatalf("%s %s: encode: %v", method, path, err)
		}
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("%s %s: read body: %v", method, path, err)
	}
	if resp.StatusCode != wantStatus {
		log.Fatalf("%s %s: got status %d, want %d: %s", method, path, resp.StatusCode, wantStatus, data)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			log.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
}

func startCatalogService(ctx context.Context, registry discovery.Registry, h http.Handler) *http.Server {
	log.Println("Starting catalog service on " + catalogServiceAddress)
	l, err := net.Listen("tcp", catalogServiceAddress)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 5 * time.Second}
	id := discovery.GenerateInstanceID(catalogServiceName)
	if err := registry.Register(ctx, id, catalogServiceName, catalogServiceAddress); err != nil {
		panic(err)
	}
	go func() {
		defer func() {
			if err := registry.Deregister(ctx, id, catalogServiceName); err != nil {
				log.Printf("Failed to deregister %s: %v", catalogServiceName, err)
			}
		}()
		if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()
	return srv
}
