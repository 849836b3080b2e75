//go:build !ios && !android && (amd64 || arm64)

// Command objc-inspect prints what the Objective-C runtime knows about its
// classes, protocols and images.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/obinnaokechukwu/inspector"
	"github.com/obinnaokechukwu/inspector/objc"
	"github.com/obinnaokechukwu/inspector/typeenc"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#87CEEB"))

	declStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// printer renders styled output only when writing to a terminal.
type printer struct {
	w      io.Writer
	styled bool
}

func (p *printer) paint(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func main() {
	var (
		className   = flag.String("class", "", "Describe the named class")
		list        = flag.Bool("list", false, "List registered classes")
		filter      = flag.String("filter", "", "Only list classes whose name contains this substring")
		protocols   = flag.Bool("protocols", false, "List registered protocols")
		images      = flag.Bool("images", false, "List loaded images")
		image       = flag.String("image", "", "List the classes defined by an image")
		subclasses  = flag.Int("subclasses", 0, "With -class, list subclasses up to this depth (-1 for all)")
		encoding    = flag.String("encoding", "", "Decode a type encoding and exit")
		noColor     = flag.Bool("no-color", false, "Disable styled output")
		verbose     = flag.Bool("v", false, "Log runtime events to stderr")
		interactive = flag.Bool("i", false, "Interactive class browser")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			inspector.SetLogger(logger)
			defer func() { _ = logger.Sync() }()
		}
	}

	p := &printer{
		w:      os.Stdout,
		styled: !*noColor && term.IsTerminal(int(os.Stdout.Fd())),
	}

	if *encoding != "" {
		if err := decodeEncoding(p, *encoding); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := inspector.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n%s\n", err, inspector.InstallInstructions())
		os.Exit(1)
	}

	var err error
	switch {
	case *interactive:
		err = runInteractive(*filter)
	case *className != "":
		err = describeClass(p, *className, *subclasses)
	case *list:
		err = listClasses(p, *filter)
	case *protocols:
		err = listProtocols(p)
	case *images:
		err = listImages(p)
	case *image != "":
		err = listImageClasses(p, *image)
	default:
		fmt.Fprintln(os.Stderr, "Usage: objc-inspect -class <name> [-subclasses depth]")
		fmt.Fprintln(os.Stderr, "       objc-inspect -list [-filter substr]")
		fmt.Fprintln(os.Stderr, "       objc-inspect -protocols | -images | -image <path>")
		fmt.Fprintln(os.Stderr, "       objc-inspect -encoding <type>")
		fmt.Fprintln(os.Stderr, "       objc-inspect -i  (interactive mode)")
		fmt.Fprintf(os.Stderr, "\nRuntime: %s\n", inspector.Status())
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func decodeEncoding(p *printer, enc string) error {
	if sig, err := typeenc.ParseMethod(enc); err == nil && len(sig.Args) >= 2 {
		p.printf("%s %s\n", p.paint(sectionStyle, "returns"), sig.Return)
		for i, a := range sig.Args {
			p.printf("%s %s %s\n", p.paint(sectionStyle, fmt.Sprintf("arg%d", i)), a.Type,
				p.paint(dimStyle, fmt.Sprintf("@%d", a.Offset)))
		}
		return nil
	}
	t, err := typeenc.Parse(enc)
	if err != nil {
		return err
	}
	p.printf("%s\n", p.paint(declStyle, t.String()))
	p.printf("%s size=%d align=%d\n", p.paint(dimStyle, t.Kind.String()), t.Size, t.Align)
	return nil
}

func describeClass(p *printer, name string, depth int) error {
	c := inspector.LookupClass(name)
	if c == nil {
		return fmt.Errorf("class %q not found", name)
	}
	info, err := inspector.Describe(c)
	if err != nil {
		return err
	}
	writeClassInfo(p, info)

	if depth != 0 {
		subs, err := c.Subclasses(depth)
		if err != nil {
			return err
		}
		names := classNames(subs)
		p.printf("\n%s (%d)\n", p.paint(sectionStyle, "Subclasses"), len(names))
		for _, n := range names {
			p.printf("  %s\n", n)
		}
	}
	return nil
}

func writeClassInfo(p *printer, info *inspector.ClassInfo) {
	title := "@interface " + info.Name
	if len(info.Superclasses) > 0 {
		title += " : " + info.Superclasses[0]
	}
	if len(info.Protocols) > 0 {
		title += " <" + strings.Join(info.Protocols, ", ") + ">"
	}
	p.printf("%s\n", p.paint(headerStyle, title))

	meta := fmt.Sprintf("size %d, version %d", info.InstanceSize, info.Version)
	if info.Image != "" {
		meta += ", image " + info.Image
	}
	if len(info.Superclasses) > 1 {
		meta += ", inherits " + strings.Join(info.Superclasses, " > ")
	}
	p.printf("%s\n", p.paint(dimStyle, meta))

	if len(info.Ivars) > 0 {
		p.printf("\n%s\n", p.paint(sectionStyle, "Ivars"))
		for _, v := range info.Ivars {
			p.printf("  %s %s\n", p.paint(dimStyle, fmt.Sprintf("+%-4d", v.Offset)), p.paint(declStyle, v.Decl+";"))
		}
	}
	if len(info.Properties) > 0 {
		p.printf("\n%s\n", p.paint(sectionStyle, "Properties"))
		for _, prop := range info.Properties {
			p.printf("  %s %s\n", p.paint(declStyle, prop.Name), p.paint(dimStyle, prop.Attributes))
		}
	}
	if len(info.Methods) > 0 {
		p.printf("\n%s\n", p.paint(sectionStyle, "Methods"))
		for _, m := range info.Methods {
			p.printf("  %s;\n", p.paint(declStyle, m.Decl))
		}
	}
	p.printf("@end\n")
}

func listClasses(p *printer, filter string) error {
	classes, err := inspector.Classes()
	if err != nil {
		return err
	}
	for _, n := range classNames(classes) {
		if filter == "" || strings.Contains(n, filter) {
			p.printf("%s\n", n)
		}
	}
	return nil
}

func listProtocols(p *printer) error {
	protos, err := objc.ProtocolList()
	if err != nil {
		return err
	}
	var names []string
	for _, proto := range protos {
		n, err := proto.Name()
		if err != nil {
			return err
		}
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		p.printf("%s\n", n)
	}
	return nil
}

func listImages(p *printer) error {
	names, err := objc.ImageNames()
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, n := range names {
		p.printf("%s\n", n)
	}
	return nil
}

func listImageClasses(p *printer, path string) error {
	names, err := objc.ClassNamesForImage(path)
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, n := range names {
		p.printf("%s\n", n)
	}
	return nil
}

// classNames returns the sorted names of classes, skipping any whose name
// does not decode.
func classNames(classes []*inspector.Class) []string {
	names := make([]string, 0, len(classes))
	for _, c := range classes {
		if n, err := c.Name(); err == nil {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}
