package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rentora/rentora/internal/auth"
	"github.com/rentora/rentora/internal/logging"
	"github.com/rentora/rentora/internal/property"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo accounts and sample properties",
		Long:  "Insert a demo owner and tenant account plus a handful of sample property listings. Safe to re-run; existing demo accounts are reused.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed()
		},
	}
}

func runSeed() error {
	cfg := loadConfig()
	logging.Setup(cfg.DevMode)

	d, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if closeErr := d.Close(); closeErr != nil {
			slog.Error("closing database", "error", closeErr)
		}
	}()

	users := auth.NewUserStore(d)

	owner, err := seedUser(users, auth.NewUser{
		Name:     "Demo Owner",
		Email:    "owner@rentora.test",
		Password: "password",
		Role:     "owner",
		Phone:    "555-0101",
	})
	if err != nil {
		return err
	}

	if _, err := seedUser(users, auth.NewUser{
		Name:     "Demo Tenant",
		Email:    "tenant@rentora.test",
		Password: "password",
		Role:     "tenant",
		Phone:    "555-0102",
	}); err != nil {
		return err
	}

	props := property.NewRepository(d)
	area := func(n int64) *int64 { return &n }

	samples := []*property.Property{
		{
			Title:        "Spacious 2BHK Apartment",
			Description:  "A well-ventilated two-bedroom apartment near the city center with modern interiors and a balcony.",
			Location:     "Bangalore, Karnataka",
			Rent:         18000,
			Rooms:        2,
			Bathrooms:    2,
			Area:         area(1100),
			Images:       []string{"https://picsum.photos/800/400?random=11"},
			Amenities:    []string{"Parking", "24/7 Water", "Power Backup", "Lift"},
			Availability: true,
		},
		{
			Title:        "Luxury Villa with Garden",
			Description:  "Independent villa with a private garden, covered parking, and a modular kitchen.",
			Location:     "Pune, Maharashtra",
			Rent:         45000,
			Rooms:        4,
			Bathrooms:    3,
			Area:         area(2600),
			Images:       []string{"https://picsum.photos/800/400?random=21"},
			Amenities:    []string{"Garden", "Parking", "Security"},
			Availability: true,
		},
		{
			Title:        "Compact Studio near Tech Park",
			Description:  "Fully furnished studio a short walk from the tech park, ideal for a single professional.",
			Location:     "Hyderabad, Telangana",
			Rent:         12000,
			Rooms:        1,
			Bathrooms:    1,
			Area:         area(480),
			Images:       []string{"https://picsum.photos/800/400?random=31"},
			Amenities:    []string{"Furnished", "Wi-Fi", "Gym"},
			Availability: true,
		},
	}

	for _, p := range samples {
		p.OwnerID = owner.ID
		if _, err := props.Insert(p); err != nil {
			return fmt.Errorf("seeding property %q: %w", p.Title, err)
		}
	}

	fmt.Printf("Seeded %d properties.\n", len(samples))
	fmt.Println("Demo accounts (password: password):")
	fmt.Println("  owner@rentora.test")
	fmt.Println("  tenant@rentora.test")
	return nil
}

// seedUser creates the account or fetches it if it already exists.
func seedUser(users *auth.UserStore, nu auth.NewUser) (*auth.User, error) {
	u, err := users.Create(nu)
	if errors.Is(err, auth.ErrEmailTaken) {
		return users.GetByEmail(nu.Email)
	}
	if err != nil {
		return nil, fmt.Errorf("seeding user %s: %w", nu.Email, err)
	}
	return u, nil
}
