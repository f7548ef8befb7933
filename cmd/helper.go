// nolint:errcheck
package cmd

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	titleStyle       = color.New(color.Bold, color.FgHiWhite)
	commandStyle     = color.New(color.FgHiGreen)
	descriptionStyle = color.New(color.FgHiCyan)
	exampleStyle     = color.New(color.FgHiCyan)
	flagStyle        = color.New(color.Bold, color.FgHiCyan)
	tipStyle         = color.New(color.FgHiYellow)
	groupTitleStyle  = color.New(color.Bold, color.FgHiMagenta)
)

// Command groups shown in the root help.
var (
	ThresholdGroup = &cobra.Group{ID: "threshold", Title: "Threshold Commands:"}
	SamplesGroup   = &cobra.Group{ID: "samples", Title: "Sample Table Commands:"}
)

var HelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}{{if or .Runnable .HasSubCommands}}{{.UsageString}}{{end}}` + titleStyle.Sprintf("GitHub:") + color.New(color.FgYellow).Sprintln(
	"		https://github.com/Hanaasagi/beetag",
)

var (
	reWithShort = regexp.MustCompile(`^( {2,})(-[a-zA-Z]), (--[a-zA-Z0-9-]+)(.*)$`)
	reLongOnly  = regexp.MustCompile(`^( {2,})(--[a-zA-Z0-9-]+)(.*)$`)
)

func rpad(s string, padding int) string {
	return fmt.Sprintf("%-*s", padding, s)
}

func trimRightSpace(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// colorFlags highlights flag names in a pflag usage block.
func colorFlags(raw string) []byte {
	var out bytes.Buffer

	for _, line := range strings.Split(raw, "\n") {
		if m := reWithShort.FindStringSubmatch(line); m != nil {
			out.WriteString(m[1])
			flagStyle.Fprint(&out, m[2])
			out.WriteString(", " + m[3] + m[4])
		} else if m := reLongOnly.FindStringSubmatch(line); m != nil {
			out.WriteString(m[1])
			flagStyle.Fprint(&out, m[2])
			out.WriteString(m[3])
		} else {
			out.WriteString(line)
		}
		out.WriteByte('\n')
	}

	return out.Bytes()
}

func section(buf *bytes.Buffer, title string) {
	fmt.Fprint(buf, "\n\n")
	titleStyle.Fprint(buf, title)
}

func listCommands(buf *bytes.Buffer, cmds []*cobra.Command, keep func(*cobra.Command) bool) {
	for _, sub := range cmds {
		if !(sub.IsAvailableCommand() || sub.Name() == "help") || !keep(sub) {
			continue
		}
		fmt.Fprint(buf, "\n  ")
		commandStyle.Fprint(buf, rpad(sub.Name(), sub.NamePadding()))
		fmt.Fprint(buf, " ")
		descriptionStyle.Fprint(buf, sub.Short)
	}
}

// ColorUsageFunc renders cobra usage with colours, grouping subcommands by
// their GroupID.
func ColorUsageFunc(w io.Writer, cmd *cobra.Command) error {
	buf := &bytes.Buffer{}

	titleStyle.Fprint(buf, "Usage:")
	if cmd.Runnable() {
		fmt.Fprint(buf, "\n  ")
		commandStyle.Fprint(buf, cmd.UseLine())
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprint(buf, "\n  ")
		commandStyle.Fprintf(buf, "%s [command]", cmd.CommandPath())
	}

	if cmd.HasExample() {
		section(buf, "Examples:")
		fmt.Fprint(buf, "\n")
		exampleStyle.Fprint(buf, cmd.Example)
	}

	if cmd.HasAvailableSubCommands() {
		cmds := cmd.Commands()
		for _, group := range cmd.Groups() {
			fmt.Fprint(buf, "\n\n")
			groupTitleStyle.Fprint(buf, group.Title)
			id := group.ID
			listCommands(buf, cmds, func(c *cobra.Command) bool { return c.GroupID == id })
		}

		ungrouped := func(c *cobra.Command) bool { return c.GroupID == "" }
		if len(cmd.Groups()) == 0 {
			section(buf, "Available Commands:")
			listCommands(buf, cmds, ungrouped)
		} else if hasUngrouped(cmd) {
			section(buf, "Additional Commands:")
			listCommands(buf, cmds, ungrouped)
		}
	}

	if cmd.HasAvailableLocalFlags() {
		section(buf, "Flags:")
		fmt.Fprint(buf, "\n")
		buf.Write(colorFlags(trimRightSpace(cmd.LocalFlags().FlagUsages())))
	}

	if cmd.HasAvailableInheritedFlags() {
		section(buf, "Global Flags:")
		fmt.Fprint(buf, "\n")
		buf.Write(colorFlags(trimRightSpace(cmd.InheritedFlags().FlagUsages())))
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprint(buf, "\n")
		tipStyle.Fprintf(buf, "Use \"%s [command] --help\" for more information about a command.", cmd.CommandPath())
	}

	fmt.Fprintln(buf)

	_, err := w.Write(buf.Bytes())
	return err
}

func hasUngrouped(cmd *cobra.Command) bool {
	for _, sub := range cmd.Commands() {
		if sub.GroupID == "" && sub.IsAvailableCommand() {
			return true
		}
	}
	return false
}

// Install applies the coloured help and usage to root and its subcommands.
func Install(root *cobra.Command) {
	root.SetHelpTemplate(HelpTemplate)
	root.SetUsageFunc(func(c *cobra.Command) error {
		return ColorUsageFunc(c.OutOrStderr(), c)
	})
}
