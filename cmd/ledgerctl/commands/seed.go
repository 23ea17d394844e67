package commands

import (
	"context"
	"fmt"
	"time"

	"marketplace-ledger/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type seedStore interface {
	CreateAccount(ctx context.Context, a store.Account) (string, error)
	CreateContract(ctx context.Context, c store.Contract) (string, error)
	CreateJob(ctx context.Context, j store.Job) (string, error)
}

type seedProfile struct {
	first, last, profession string
	role                    store.Role
	balance                 string
}

type seedContract struct {
	client, contractor int
	status             store.ContractStatus
}

type seedJob struct {
	contract int
	price    string
	paidAt   string
}

var seedProfiles = []seedProfile{
	{"Harry", "Potter", "Wizard", store.RoleClient, "1150"},
	{"Mr", "Robot", "Hacker", store.RoleClient, "231.11"},
	{"John", "Snow", "Knows nothing", store.RoleClient, "451.3"},
	{"Ash", "Kethcum", "Pokemon master", store.RoleClient, "1.3"},
	{"John", "Lenon", "Musician", store.RoleContractor, "64"},
	{"Linus", "Torvalds", "Programmer", store.RoleContractor, "1214"},
	{"Alan", "Turing", "Programmer", store.RoleContractor, "22"},
	{"Aragorn", "II Elessar Telcontarvalds", "Fighter", store.RoleContractor, "314"},
}

// Indexes point into seedProfiles.
var seedContracts = []seedContract{
	{0, 4, store.ContractTerminated},
	{0, 5, store.ContractInProgress},
	{1, 5, store.ContractInProgress},
	{1, 6, store.ContractInProgress},
	{2, 7, store.ContractNew},
	{2, 6, store.ContractInProgress},
	{3, 6, store.ContractInProgress},
	{3, 5, store.ContractInProgress},
	{3, 7, store.ContractInProgress},
}

// Indexes point into seedContracts.
var seedJobs = []seedJob{
	{0, "200", ""},
	{1, "201", ""},
	{2, "202", ""},
	{3, "200", ""},
	{6, "200", ""},
	{6, "2020", "2020-08-15T19:11:26Z"},
	{0, "200", "2020-08-15T19:11:26Z"},
	{1, "200", "2020-08-16T19:11:26Z"},
	{2, "200", "2020-08-17T19:11:26Z"},
	{4, "200", "2020-08-17T19:11:26Z"},
	{0, "21", "2020-08-10T19:11:26Z"},
	{1, "21", "2020-08-15T19:11:26Z"},
	{2, "121", "2020-08-15T19:11:26Z"},
	{2, "121", "2020-08-14T23:11:26Z"},
}

type seedResult struct {
	Profiles  []string `json:"profiles"`
	Contracts []string `json:"contracts"`
	Jobs      []string `json:"jobs"`
}

func seed(ctx context.Context, st seedStore) (*seedResult, error) {
	out := &seedResult{}
	for _, p := range seedProfiles {
		id, err := st.CreateAccount(ctx, store.Account{
			FirstName:  p.first,
			LastName:   p.last,
			Profession: p.profession,
			Role:       p.role,
			Balance:    decimal.RequireFromString(p.balance),
		})
		if err != nil {
			return nil, fmt.Errorf("seed profile %s %s: %w", p.first, p.last, err)
		}
		out.Profiles = append(out.Profiles, id)
	}
	for i, c := range seedContracts {
		id, err := st.CreateContract(ctx, store.Contract{
			Terms:        "bla bla bla",
			Status:       c.status,
			ClientID:     out.Profiles[c.client],
			ContractorID: out.Profiles[c.contractor],
		})
		if err != nil {
			return nil, fmt.Errorf("seed contract %d: %w", i, err)
		}
		out.Contracts = append(out.Contracts, id)
	}
	for i, j := range seedJobs {
		job := store.Job{
			ContractID:  out.Contracts[j.contract],
			Description: "work",
			Price:       decimal.RequireFromString(j.price),
		}
		if j.paidAt != "" {
			at, err := time.Parse(time.RFC3339, j.paidAt)
			if err != nil {
				return nil, err
			}
			job.Paid = true
			job.PaymentDate = &at
		}
		id, err := st.CreateJob(ctx, job)
		if err != nil {
			return nil, fmt.Errorf("seed job %d: %w", i, err)
		}
		out.Jobs = append(out.Jobs, id)
	}
	return out, nil
}

// seed: load the sample marketplace into an empty, migrated database.
func seedCmd() *cobra.Command {
	var migrateFirst bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample profiles, contracts and jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			if migrateFirst {
				if err := st.Migrate(); err != nil {
					return err
				}
			}
			res, err := seed(cmd.Context(), st)
			if err != nil {
				return err
			}
			log.Info().Int("profiles", len(res.Profiles)).Int("contracts", len(res.Contracts)).Int("jobs", len(res.Jobs)).Msg("seed_complete")
			return printJSON(res)
		},
	}
	cmd.Flags().BoolVar(&migrateFirst, "migrate", true, "apply migrations before seeding")
	return cmd
}
