package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/homeserv-dev/homeserv/internal/cli/app"
	"github.com/homeserv-dev/homeserv/internal/cli/client"
)

const (
	routeAdmin              = "/admin"
	routeAdminReports       = "/admin/reports"
	routeAdminRequests      = "/admin/service-requests"
	routeAdminProfessionals = "/admin/professionals"
	routeAdminCustomers     = "/admin/customers"
)

type idActionFunc func(ctx context.Context, a *app.App, id int64) (*client.Message, error)

// newIDActionCmd builds a command that runs one action against an id
func newIDActionCmd(rt *Runtime, use, short, route, done string, fn idActionFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := rt.App()
			if err != nil {
				return err
			}

			msg, err := fn(cmd.Context(), a, id)
			if err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), fmt.Sprintf(done, id), msg.Message)
			return nil
		},
	}

	return withRoute(cmd, route)
}

// NewAdminCmd creates the admin command group
func NewAdminCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administer users, professionals and customers",
	}

	cmd.AddCommand(
		newAdminUsersCmd(rt),
		newAdminStatsCmd(rt),
		newAdminRecentCmd(rt),
		newAdminRequestsCmd(rt),
		newAdminProfessionalsCmd(rt),
		newAdminCustomersCmd(rt),
		newAdminBlockCmd(rt),
		newIDActionCmd(rt, "unblock", "Lift an account suspension", routeAdmin, "User %d unblocked",
			func(ctx context.Context, a *app.App, id int64) (*client.Message, error) {
				return a.API.UnblockUser(ctx, id)
			}),
	)

	return cmd
}

func newAdminUsersCmd(rt *Runtime) *cobra.Command {
	var filter client.UserFilter

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			users, err := a.API.ListUsers(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(users) == 0 {
				fmt.Fprintln(out, "No users found.")
				return nil
			}

			w := newTable(out, "ID", "EMAIL", "ROLE", "ACTIVE")
			for _, u := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", u.ID, u.Email, u.Role, u.Active)
			}
			return w.Flush()
		},
	}

	userFilterFlags(cmd, &filter)
	cmd.Flags().StringVar(&filter.Role, "role", "", "Filter by role")

	return withRoute(cmd, routeAdmin)
}

func userFilterFlags(cmd *cobra.Command, f *client.UserFilter) {
	cmd.Flags().StringVar(&f.Status, "status", "", "Filter by status (active, blocked, pending)")
	cmd.Flags().StringVar(&f.Search, "search", "", "Free-text search")
}

func newAdminStatsCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stats",
		Aliases: []string{"reports"},
		Short:   "Show marketplace counters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			stats, err := a.API.AdminDashboardStats(cmd.Context())
			if err != nil {
				return err
			}
			printDocument(cmd.OutOrStdout(), stats)
			return nil
		},
	}

	return withRoute(cmd, routeAdmin)
}

func newAdminRecentCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the latest service requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			requests, err := a.API.RecentServiceRequests(cmd.Context())
			if err != nil {
				return err
			}
			return printRequests(cmd.OutOrStdout(), requests)
		},
	}

	return withRoute(cmd, routeAdminReports)
}

func newAdminRequestsCmd(rt *Runtime) *cobra.Command {
	var filter client.RequestFilter

	cmd := &cobra.Command{
		Use:   "requests",
		Short: "List every service request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			requests, err := a.API.AllServiceRequests(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printRequests(cmd.OutOrStdout(), requests)
		},
	}

	requestFilterFlags(cmd, &filter)

	return withRoute(cmd, routeAdminRequests)
}

func newAdminProfessionalsCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "professionals",
		Aliases: []string{"pros"},
		Short:   "Review and moderate professionals",
	}

	var filter client.UserFilter
	var pending bool

	list := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List professionals",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			var pros []client.Document
			if pending {
				pros, err = a.API.PendingProfessionals(cmd.Context())
			} else {
				pros, err = a.API.ListProfessionals(cmd.Context(), filter)
			}
			if err != nil {
				return err
			}
			return printDocuments(cmd.OutOrStdout(), pros, "No professionals found.")
		},
	}
	userFilterFlags(list, &filter)
	list.Flags().BoolVar(&pending, "pending", false, "Only professionals awaiting approval")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one professional",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := rt.App()
			if err != nil {
				return err
			}

			pro, err := a.API.GetProfessional(cmd.Context(), id)
			if err != nil {
				return err
			}
			printDocument(cmd.OutOrStdout(), pro)
			return nil
		},
	}

	cmd.AddCommand(
		withRoute(list, routeAdminProfessionals),
		withRoute(show, routeAdminProfessionals),
		newStatusCmd(rt, routeAdminProfessionals, "Professional %d updated",
			func(ctx context.Context, a *app.App, id int64, status client.Document) (*client.Message, error) {
				return a.API.UpdateProfessionalStatus(ctx, id, status)
			}),
		newIDActionCmd(rt, "approve", "Approve a pending professional", routeAdminProfessionals, "Professional %d approved",
			func(ctx context.Context, a *app.App, id int64) (*client.Message, error) {
				return a.API.ApproveProfessional(ctx, id)
			}),
		newIDActionCmd(rt, "block", "Suspend a professional", routeAdminProfessionals, "Professional %d blocked",
			func(ctx context.Context, a *app.App, id int64) (*client.Message, error) {
				return a.API.BlockProfessional(ctx, id)
			}),
		newIDActionCmd(rt, "unblock", "Lift a professional's suspension", routeAdminProfessionals, "Professional %d unblocked",
			func(ctx context.Context, a *app.App, id int64) (*client.Message, error) {
				return a.API.UnblockProfessional(ctx, id)
			}),
	)

	return cmd
}

func newAdminCustomersCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Review and moderate customers",
	}

	var filter client.UserFilter

	list := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List customers",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			customers, err := a.API.ListCustomers(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printDocuments(cmd.OutOrStdout(), customers, "No customers found.")
		},
	}
	userFilterFlags(list, &filter)

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := rt.App()
			if err != nil {
				return err
			}

			customer, err := a.API.GetCustomer(cmd.Context(), id)
			if err != nil {
				return err
			}
			printDocument(cmd.OutOrStdout(), customer)
			return nil
		},
	}

	cmd.AddCommand(
		withRoute(list, routeAdminCustomers),
		withRoute(show, routeAdminCustomers),
		newStatusCmd(rt, routeAdminCustomers, "Customer %d updated",
			func(ctx context.Context, a *app.App, id int64, status client.Document) (*client.Message, error) {
				return a.API.UpdateCustomerStatus(ctx, id, status)
			}),
		newIDActionCmd(rt, "block", "Suspend a customer", routeAdminCustomers, "Customer %d blocked",
			func(ctx context.Context, a *app.App, id int64) (*client.Message, error) {
				return a.API.BlockCustomer(ctx, id)
			}),
		newIDActionCmd(rt, "unblock", "Lift a customer's suspension", routeAdminCustomers, "Customer %d unblocked",
			func(ctx context.Context, a *app.App, id int64) (*client.Message, error) {
				return a.API.UnblockCustomer(ctx, id)
			}),
	)

	return cmd
}

func newAdminBlockCmd(rt *Runtime) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "block <user-id>",
		Short: "Suspend any account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(reason) == "" {
				return fmt.Errorf("--reason is required")
			}
			a, err := rt.App()
			if err != nil {
				return err
			}

			msg, err := a.API.BlockUser(cmd.Context(), id, reason)
			if err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), fmt.Sprintf("User %d blocked", id), msg.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason shown to the user")

	return withRoute(cmd, routeAdmin)
}

type statusFunc func(ctx context.Context, a *app.App, id int64, status client.Document) (*client.Message, error)

func newStatusCmd(rt *Runtime, route, done string, fn statusFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <id> <key=value>...",
		Short: "Set status flags, e.g. is_approved=true",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			a, err := rt.App()
			if err != nil {
				return err
			}

			msg, err := fn(cmd.Context(), a, id, status)
			if err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), fmt.Sprintf(done, id), msg.Message)
			return nil
		},
	}

	return withRoute(cmd, route)
}

// parseAssignments turns key=value pairs into a document. Booleans and
// integers are sent as JSON booleans and numbers.
func parseAssignments(args []string) (client.Document, error) {
	doc := client.Document{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment '%s': expected key=value", arg)
		}
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			doc[key] = n
		} else if b, err := strconv.ParseBool(value); err == nil {
			doc[key] = b
		} else {
			doc[key] = value
		}
	}
	return doc, nil
}

func printDocuments(out io.Writer, docs []client.Document, empty string) error {
	if len(docs) == 0 {
		fmt.Fprintln(out, empty)
		return nil
	}
	for i, doc := range docs {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printDocument(out, doc)
	}
	return nil
}
