package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/homeserv-dev/homeserv/internal/cli/client"
	"github.com/homeserv-dev/homeserv/internal/cli/router"
)

// NewServicesCmd creates the services command group
func NewServicesCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "Browse and manage the service catalogue",
	}

	cmd.AddCommand(
		newServicesListCmd(rt),
		newServicesShowCmd(rt),
		newServicesTypesCmd(rt),
		newServicesPopularCmd(rt),
		newServicesSearchCmd(rt),
		newServicesCreateCmd(rt),
		newServicesUpdateCmd(rt),
		newServicesDeleteCmd(rt),
	)

	return cmd
}

func newServicesListCmd(rt *Runtime) *cobra.Command {
	var filter client.ServiceFilter

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List services",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			services, err := a.API.ListServices(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printServices(cmd.OutOrStdout(), services)
		},
	}

	cmd.Flags().StringVar(&filter.Name, "name", "", "Filter by name")
	cmd.Flags().StringVar(&filter.Type, "type", "", "Filter by service type")
	cmd.Flags().StringVar(&filter.Pin, "pin", "", "Only services with professionals near this PIN code")

	return withRoute(cmd, "/customer/services", "/admin/services")
}

func newServicesShowCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one service",
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

			s, err := a.API.GetService(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (#%d)\n", s.Name, s.ID)
			fmt.Fprintf(out, "  Type:     %s\n", s.ServiceType)
			fmt.Fprintf(out, "  Price:    %.2f\n", s.Price)
			fmt.Fprintf(out, "  Duration: %d min\n", s.TimeRequired)
			if s.Description != "" {
				fmt.Fprintf(out, "  %s\n", s.Description)
			}
			return nil
		},
	}
}

func newServicesTypesCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List service types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			types, err := a.API.ListServiceTypes(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range types {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func newServicesPopularCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "popular",
		Short: "List the most requested services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			services, err := a.API.PopularServices(cmd.Context())
			if err != nil {
				return err
			}
			return printServices(cmd.OutOrStdout(), services)
		},
	}
}

func newServicesSearchCmd(rt *Runtime) *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search services",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			services, err := a.API.SearchServices(cmd.Context(), args[0], by)
			if err != nil {
				return err
			}
			return printServices(cmd.OutOrStdout(), services)
		},
	}

	cmd.Flags().StringVar(&by, "by", "name", "Field to search: name, type or pin")

	return withRoute(cmd, router.PathSearch)
}

func serviceInputFlags(cmd *cobra.Command, in *client.ServiceInput) {
	cmd.Flags().StringVar(&in.Name, "name", "", "Service name")
	cmd.Flags().Float64Var(&in.Price, "price", 0, "Base price")
	cmd.Flags().IntVar(&in.TimeRequired, "time", 0, "Time required in minutes")
	cmd.Flags().StringVar(&in.Description, "description", "", "Description")
	cmd.Flags().StringVar(&in.ServiceType, "type", "", "Service type")
}

func newServicesCreateCmd(rt *Runtime) *cobra.Command {
	var in client.ServiceInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a service to the catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Name == "" || in.ServiceType == "" || in.Price <= 0 {
				return fmt.Errorf("--name, --type and a positive --price are required")
			}
			a, err := rt.App()
			if err != nil {
				return err
			}

			msg, err := a.API.CreateService(cmd.Context(), in)
			if err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), "Service created", msg.Message)
			return nil
		},
	}

	serviceInputFlags(cmd, &in)

	return withRoute(cmd, "/admin/services")
}

func newServicesUpdateCmd(rt *Runtime) *cobra.Command {
	var in client.ServiceInput

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a service",
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

			// Start from the stored service so unset flags keep their values
			current, err := a.API.GetService(cmd.Context(), id)
			if err != nil {
				return err
			}
			merged := client.ServiceInput{
				Name:         current.Name,
				Price:        current.Price,
				TimeRequired: current.TimeRequired,
				Description:  current.Description,
				ServiceType:  current.ServiceType,
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				merged.Name = in.Name
			}
			if flags.Changed("price") {
				merged.Price = in.Price
			}
			if flags.Changed("time") {
				merged.TimeRequired = in.TimeRequired
			}
			if flags.Changed("description") {
				merged.Description = in.Description
			}
			if flags.Changed("type") {
				merged.ServiceType = in.ServiceType
			}

			msg, err := a.API.UpdateService(cmd.Context(), id, merged)
			if err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), "Service updated", msg.Message)
			return nil
		},
	}

	serviceInputFlags(cmd, &in)

	return withRoute(cmd, "/admin/services")
}

func newServicesDeleteCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a service from the catalogue",
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

			if err := a.API.DeleteService(cmd.Context(), id); err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), fmt.Sprintf("Service %d deleted", id), "")
			return nil
		},
	}

	return withRoute(cmd, "/admin/services")
}

func printServices(out io.Writer, services []client.Service) error {
	if len(services) == 0 {
		fmt.Fprintln(out, "No services found.")
		return nil
	}

	w := newTable(out, "ID", "NAME", "TYPE", "PRICE", "TIME", "AVAILABLE")
	for _, s := range services {
		available := "yes"
		if !s.HasProfessionals {
			available = "no"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%d min\t%s\n", s.ID, s.Name, s.ServiceType, s.Price, s.TimeRequired, available)
	}
	return w.Flush()
}
