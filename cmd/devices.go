package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/eglpi/internal/config"
	"github.com/bnema/eglpi/internal/input"
	"github.com/bnema/eglpi/internal/setup"
	"github.com/bnema/eglpi/internal/ui"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var devicesPath string

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Inspect and select input devices",
}

var devicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List input devices known to the kernel",
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := input.ListDevices(devicesPath)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderDeviceTable(devices, config.Get().Input))
		return nil
	},
}

var devicesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configured devices and whether they can be opened",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get().Input
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, ui.FormatAppHeader("DEVICES", config.GetConfigPath()))
		fmt.Fprintln(out, ui.FormatField("mouse", cfg.MouseDevice))
		fmt.Fprintln(out, ui.FormatField("keyboard", cfg.KeyboardDevice))
		fmt.Fprintln(out, ui.FormatField("scroll mode", fmt.Sprintf("%v", cfg.ScrollMode)))
		fmt.Fprintln(out, ui.FormatField("layout", cfg.KeyboardLayout))
		fmt.Fprintln(out)

		if err := setup.NewDeviceSetup(devicesPath).ValidateDevices(cfg); err != nil {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintln(out, ui.ErrorStyle.Render(ui.IconError+" "+line))
			}
			return nil
		}
		fmt.Fprintln(out, ui.SuccessStyle.Render(ui.IconSuccess+" both devices can be opened"))
		return nil
	},
}

var devicesSelectCmd = &cobra.Command{
	Use:   "select",
	Short: "Pick the mouse and keyboard interactively and save them",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setup.NewDeviceSetup(devicesPath).RunInteractiveSetup()
	},
}

func init() {
	devicesCmd.PersistentFlags().StringVar(&devicesPath, "proc", input.ProcDevicesPath, "kernel input device list")

	devicesCmd.AddCommand(devicesListCmd)
	devicesCmd.AddCommand(devicesShowCmd)
	devicesCmd.AddCommand(devicesSelectCmd)
}

func renderDeviceTable(devices []input.DeviceInfo, current config.InputConfig) string {
	var output strings.Builder
	output.WriteString(ui.FormatAppHeader("DEVICES", devicesPath))
	output.WriteString("\n\n")

	rows := [][]string{}
	for _, d := range devices {
		kind := "-"
		switch {
		case d.IsMouse():
			kind = "mouse"
		case d.IsKeyboard():
			kind = "keyboard"
		}

		node := d.MouseNode()
		if node == "" {
			node = d.EventNode()
		}

		marker := ""
		if node != "" && (node == current.MouseDevice || d.EventNode() == current.KeyboardDevice) {
			marker = "◀"
		}
		rows = append(rows, []string{d.Name, kind, node, strings.Join(d.Handlers, " "), marker})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ui.ColorSubtle)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return lipgloss.NewStyle().
					Foreground(ui.ColorPrimary).
					Bold(true).
					Padding(0, 1)
			case col == 4 && rows[row][4] != "":
				return lipgloss.NewStyle().
					Foreground(ui.ColorSuccess).
					Bold(true).
					Padding(0, 1)
			case col == 1:
				return lipgloss.NewStyle().
					Foreground(ui.ColorInfo).
					Padding(0, 1)
			default:
				return lipgloss.NewStyle().
					Foreground(ui.ColorText).
					Padding(0, 1)
			}
		}).
		Headers("NAME", "KIND", "NODE", "HANDLERS", "IN USE").
		Rows(rows...)

	output.WriteString(t.String())
	output.WriteString("\n\n")
	output.WriteString(ui.SubtleStyle.Render(fmt.Sprintf("Total: %d device(s)", len(devices))))
	return output.String()
}
