package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homeserv-dev/homeserv/internal/cli/app"
	"github.com/homeserv-dev/homeserv/internal/cli/client"
)

const (
	routeProfessional         = "/professional"
	routeProfessionalProfile  = "/professional/profile"
	routeProfessionalRequests = "/professional/service-requests"
	routeCustomer             = "/customer"
	routeCustomerProfile      = "/customer/profile"
)

type documentFunc func(ctx context.Context, a *app.App) (client.Document, error)

func newDocumentCmd(rt *Runtime, use, short, route string, fn documentFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			doc, err := fn(cmd.Context(), a)
			if err != nil {
				return err
			}
			printDocument(cmd.OutOrStdout(), doc)
			return nil
		},
	}

	return withRoute(cmd, route)
}

type updateFunc func(ctx context.Context, a *app.App, doc client.Document) (*client.Message, error)

func newProfileUpdateCmd(rt *Runtime, route string, fn updateFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <key=value>...",
		Short: "Update profile fields, e.g. address=\"12 High St\" pin=560001",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := parseAssignments(args)
			if err != nil {
				return err
			}
			a, err := rt.App()
			if err != nil {
				return err
			}

			msg, err := fn(cmd.Context(), a, doc)
			if err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), "Profile updated", msg.Message)
			return nil
		},
	}

	return withRoute(cmd, route)
}

// NewProfessionalCmd creates the professional command group
func NewProfessionalCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "professional",
		Aliases: []string{"pro"},
		Short:   "Your professional profile, services and work",
	}

	profile := newDocumentCmd(rt, "profile", "Show your profile", routeProfessionalProfile,
		func(ctx context.Context, a *app.App) (client.Document, error) {
			return a.API.ProfessionalProfile(ctx)
		})
	profile.AddCommand(newProfileUpdateCmd(rt, routeProfessionalProfile,
		func(ctx context.Context, a *app.App, doc client.Document) (*client.Message, error) {
			return a.API.UpdateProfessionalProfile(ctx, doc)
		}))

	cmd.AddCommand(
		profile,
		newDocumentCmd(rt, "stats", "Show your dashboard counters", routeProfessional,
			func(ctx context.Context, a *app.App) (client.Document, error) {
				return a.API.ProfessionalDashboardStats(ctx)
			}),
		newProfessionalServicesCmd(rt),
		newProfessionalReviewsCmd(rt),
		newProfessionalRequestsCmd(rt),
	)

	return cmd
}

func newProfessionalServicesCmd(rt *Runtime) *cobra.Command {
	var set []int64

	cmd := &cobra.Command{
		Use:   "services",
		Short: "Show or replace the services you offer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("set") {
				msg, err := a.API.UpdateProfessionalServices(cmd.Context(), set)
				if err != nil {
					return err
				}
				printMessage(cmd.OutOrStdout(), "Services updated", msg.Message)
				return nil
			}

			services, err := a.API.ProfessionalServices(cmd.Context())
			if err != nil {
				return err
			}
			return printServices(cmd.OutOrStdout(), services)
		},
	}

	cmd.Flags().Int64SliceVar(&set, "set", nil, "Replace offered services with these ids")

	return withRoute(cmd, routeProfessionalProfile)
}

func newProfessionalReviewsCmd(rt *Runtime) *cobra.Command {
	var filter client.RequestFilter

	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Show reviews customers left for you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			reviews, err := a.API.ProfessionalReviews(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printReviews(cmd.OutOrStdout(), reviews)
		},
	}

	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "Maximum number of reviews")

	return withRoute(cmd, routeProfessional)
}

func newProfessionalRequestsCmd(rt *Runtime) *cobra.Command {
	var filter client.RequestFilter

	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Show requests assigned to you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			requests, err := a.API.ProfessionalServiceRequests(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printRequests(cmd.OutOrStdout(), requests)
		},
	}

	requestFilterFlags(cmd, &filter)

	return withRoute(cmd, routeProfessionalRequests)
}

// NewCustomerCmd creates the customer command group
func NewCustomerCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Your customer profile, addresses and activity",
	}

	profile := newDocumentCmd(rt, "profile", "Show your profile", routeCustomerProfile,
		func(ctx context.Context, a *app.App) (client.Document, error) {
			return a.API.CustomerProfile(ctx)
		})
	profile.AddCommand(newProfileUpdateCmd(rt, routeCustomerProfile,
		func(ctx context.Context, a *app.App, doc client.Document) (*client.Message, error) {
			return a.API.UpdateCustomerProfile(ctx, doc)
		}))

	cmd.AddCommand(
		profile,
		newDocumentCmd(rt, "stats", "Show your dashboard counters", routeCustomer,
			func(ctx context.Context, a *app.App) (client.Document, error) {
				return a.API.CustomerDashboardStats(ctx)
			}),
		newCustomerActivityCmd(rt),
		newCustomerAddressesCmd(rt),
	)

	return cmd
}

func newCustomerActivityCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show your recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			activity, err := a.API.CustomerActivity(cmd.Context())
			if err != nil {
				return err
			}
			return printDocuments(cmd.OutOrStdout(), activity, "No recent activity.")
		},
	}

	return withRoute(cmd, routeCustomer)
}

func newCustomerAddressesCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addresses",
		Short: "Manage saved addresses",
	}

	list := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List saved addresses",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			addresses, err := a.API.SavedAddresses(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(addresses) == 0 {
				fmt.Fprintln(out, "No saved addresses.")
				return nil
			}

			w := newTable(out, "ID", "LABEL", "ADDRESS", "PIN", "DEFAULT")
			for _, addr := range addresses {
				def := ""
				if addr.IsDefault {
					def = "✓"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", addr.ID, orDash(addr.Label), addr.Address, orDash(addr.Pin), def)
			}
			return w.Flush()
		},
	}

	var addr client.Address
	add := &cobra.Command{
		Use:   "add <address>",
		Short: "Save an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr.Address = args[0]

			a, err := rt.App()
			if err != nil {
				return err
			}

			msg, err := a.API.AddSavedAddress(cmd.Context(), addr)
			if err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), "Address saved", msg.Message)
			return nil
		},
	}
	add.Flags().StringVar(&addr.Label, "label", "", "Label such as home or office")
	add.Flags().StringVar(&addr.Pin, "pin", "", "PIN code")
	add.Flags().BoolVar(&addr.IsDefault, "default", false, "Make this the default address")

	remove := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a saved address",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := rt.App()
			if err != nil {
				return err
			}

			if err := a.API.DeleteSavedAddress(cmd.Context(), id); err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), fmt.Sprintf("Address %d deleted", id), "")
			return nil
		},
	}

	cmd.AddCommand(
		withRoute(list, routeCustomerProfile),
		withRoute(add, routeCustomerProfile),
		withRoute(remove, routeCustomerProfile),
		newIDActionCmd(rt, "default", "Make a saved address the default", routeCustomerProfile, "Address %d is now the default",
			func(ctx context.Context, a *app.App, id int64) (*client.Message, error) {
				return a.API.SetDefaultAddress(ctx, id)
			}),
	)

	return cmd
}
