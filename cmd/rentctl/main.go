// rentctl is a small terminal front end for the rental marketplace. It
// drives the same client core a UI would: commands go through the
// CommandHandler, reads come from the generation-guarded ListingStore.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rent-wheels/service-rental/internal/api"
	"github.com/rent-wheels/service-rental/internal/client"
	"github.com/rent-wheels/service-rental/internal/domain"
	"github.com/rent-wheels/service-rental/internal/domain/booking"
	"github.com/rent-wheels/service-rental/internal/domain/car"
	"github.com/rent-wheels/service-rental/internal/logger"
)

const usage = `usage: rentctl [flags] <command> [args]

commands:
  list                      list all cars
  top [n]                   show the top rated cars (default 8)
  show <car-id>             show one car
  add <name> <rate>         list a new car
  book <car-id>             book a car
  complete <booking-id>     complete a booking
  cancel <booking-id>       cancel a booking
  toggle <car-id> <status>  set a listing available/unavailable
  delete <car-id>           remove a listing
  my-bookings               list your bookings
  my-listings               list your cars
  watch                     refresh the listing cache until interrupted

flags:
`

func main() {
	var (
		baseURL  = flag.String("url", envOr("RENTAL_URL", "http://localhost:3000"), "API base URL")
		token    = flag.String("token", os.Getenv("RENTAL_TOKEN"), "bearer token")
		email    = flag.String("email", os.Getenv("RENTAL_EMAIL"), "your email")
		name     = flag.String("name", os.Getenv("RENTAL_NAME"), "your display name")
		interval = flag.Duration("interval", 30*time.Second, "refresh interval for watch")
		yes      = flag.Bool("yes", false, "skip the confirm prompt on complete/cancel")
	)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New("development")
	if err != nil {
		fmt.Fprintf(os.Stderr, "rentctl: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ident := domain.Identity{Email: *email, Name: *name}
	apiClient := client.New(*baseURL,
		client.WithTokenSource(func() string { return *token }),
		client.WithLogger(log),
	)
	store := client.NewListingStore()
	commands := client.NewCommandHandler(apiClient, store, log)
	if !*yes {
		commands.Confirm = promptConfirm
	}
	refresher := client.NewRefresher(apiClient, store, *interval, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, args, ident, apiClient, store, commands, refresher); err != nil {
		fmt.Fprintf(os.Stderr, "rentctl: %v\n", err)
		os.Exit(1)
	}
}

func run(
	ctx context.Context,
	args []string,
	ident domain.Identity,
	apiClient *client.Client,
	store *client.ListingStore,
	commands *client.CommandHandler,
	refresher *client.Refresher,
) error {
	switch cmd, rest := args[0], args[1:]; cmd {
	case "list":
		cars, err := apiClient.ListCars(ctx)
		if err != nil {
			return err
		}
		printCars(cars)
		return nil

	case "top":
		n := 8
		if len(rest) > 0 {
			if _, err := fmt.Sscanf(rest[0], "%d", &n); err != nil {
				return fmt.Errorf("top: bad count %q", rest[0])
			}
		}
		wire, err := apiClient.ListCars(ctx)
		if err != nil {
			return err
		}
		cars := make([]*car.Car, 0, len(wire))
		for _, w := range wire {
			c, err := api.ToCar(w)
			if err != nil {
				continue
			}
			cars = append(cars, c)
		}
		for _, c := range car.TopRated(cars, n) {
			printCar(api.FromCar(c))
		}
		return nil

	case "show":
		if len(rest) != 1 {
			return fmt.Errorf("show: expected <car-id>")
		}
		c, err := apiClient.GetCar(ctx, rest[0])
		if err != nil {
			return err
		}
		printCar(*c)
		return nil

	case "add":
		if len(rest) < 2 {
			return fmt.Errorf("add: expected <name> <rate>")
		}
		var rate float64
		if _, err := fmt.Sscanf(rest[1], "%f", &rate); err != nil {
			return fmt.Errorf("add: bad rate %q", rest[1])
		}
		id, err := apiClient.AddCar(ctx, api.AddCarRequest{CarName: rest[0], RentPrice: rate})
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil

	case "book":
		if len(rest) != 1 {
			return fmt.Errorf("book: expected <car-id>")
		}
		c, err := commands.Book(ctx, ident, rest[0])
		if err != nil {
			return err
		}
		fmt.Printf("booked %s (%s)\n", c.CarName, c.ID)
		return nil

	case "complete", "cancel":
		if len(rest) != 1 {
			return fmt.Errorf("%s: expected <booking-id>", cmd)
		}
		action := booking.ActionComplete
		if cmd == "cancel" {
			action = booking.ActionCancel
		}
		if err := primeBookings(ctx, ident, apiClient, store); err != nil {
			return err
		}
		b, err := commands.Resolve(ctx, ident, rest[0], action)
		if err != nil {
			return err
		}
		fmt.Printf("booking %s is now %s\n", b.ID, b.Status)
		return nil

	case "toggle":
		if len(rest) != 2 {
			return fmt.Errorf("toggle: expected <car-id> <available|unavailable>")
		}
		c, err := commands.SetAvailability(ctx, ident, rest[0], car.Status(rest[1]))
		if err != nil {
			return err
		}
		fmt.Printf("%s is now %s\n", c.CarName, c.CarStatus)
		return nil

	case "delete":
		if len(rest) != 1 {
			return fmt.Errorf("delete: expected <car-id>")
		}
		if err := commands.Delete(ctx, ident, rest[0]); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil

	case "my-bookings":
		bookings, err := apiClient.MyBookings(ctx, ident.Email)
		if err != nil {
			return err
		}
		for _, b := range bookings {
			fmt.Printf("%s  %-10s  %s  $%.0f/day\n", b.ID, b.Status, b.CarName, b.RentPrice)
		}
		return nil

	case "my-listings":
		cars, err := apiClient.MyListings(ctx, ident.Email)
		if err != nil {
			return err
		}
		printCars(cars)
		return nil

	case "watch":
		if _, err := refresher.RefreshOnce(ctx); err != nil {
			return err
		}
		printCars(store.Cars())
		fmt.Fprintln(os.Stderr, "watching; ctrl-c to stop")
		if err := refresher.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// primeBookings seeds the store so Resolve can run its local terminal check
// and the confirm prompt can show booking details.
func primeBookings(ctx context.Context, ident domain.Identity, apiClient *client.Client, store *client.ListingStore) error {
	gen := store.BeginFetch()
	bookings, err := apiClient.MyBookings(ctx, ident.Email)
	if err != nil {
		return err
	}
	store.ApplyBookingSnapshot(gen, bookings)
	return nil
}

func promptConfirm(action booking.Action, b api.Booking) bool {
	label := b.CarName
	if label == "" {
		label = b.CarID
	}
	fmt.Fprintf(os.Stderr, "%s booking for %s? [y/N] ", action, label)
	var answer string
	if _, err := fmt.Scanln(&answer); err != nil {
		return false
	}
	return answer == "y" || answer == "Y" || answer == "yes"
}

func printCars(cars []api.Car) {
	for _, c := range cars {
		printCar(c)
	}
}

func printCar(c api.Car) {
	fmt.Printf("%s  %-12s  $%.0f/day  %-20s  %s\n",
		c.ID, c.CarStatus, c.RentPrice, c.CarName, c.ProviderEmail)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
