// Command rfbclient connects to a VNC server and streams its desktop into
// a single PNG snapshot (framebuffer.png, rewritten as updates arrive) in
// a snapshot directory, forwarding no input. It exists
// to exercise the rfb package end to end; a real GUI front end would
// replace pngFramebuffer and wire a live InputSource instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/quailfeather/rfbclient/rfb"
	"github.com/quailfeather/rfbclient/rfb/diag"
)

var (
	optPort        int
	optPassword    string
	optVerbose     bool
	optDisable     []string
	optSnapshotDir string
	optMetricsAddr string
	optExclusive   bool
)

func main() {
	root := &cobra.Command{
		Use:   "rfbclient hostname",
		Short: "Edifying VNC client of Ook",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}

	root.Flags().IntVarP(&optPort, "port", "p", 5901, "TCP port to connect with")
	root.Flags().StringVarP(&optPassword, "password", "a", "", "VNC authentication password")
	root.Flags().BoolVarP(&optVerbose, "verbose", "v", false, "enable diagnostic output to standard error")
	root.Flags().StringArrayVarP(&optDisable, "disable", "d", nil, "disable a particular encoding by name (repeatable)")
	root.Flags().StringVar(&optSnapshotDir, "snapshot-dir", "snapshots", "directory PNG framebuffer snapshots are written to")
	root.Flags().StringVar(&optMetricsAddr, "metrics-addr", "", "if set, serve /metrics and /healthz on this address")
	root.Flags().BoolVar(&optExclusive, "exclusive", false, "request exclusive (non-shared) access")

	// glog registers its flags on the standard flag package; fold them
	// into the same pflag set cobra reads so -v also gates glog's own
	// verbosity, matching this CLI's single -v switch.
	root.Flags().AddGoFlagSet(flag.CommandLine)

	if err := root.Execute(); err != nil {
		glog.Errorf("Flagrant VNC error: %v", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	hostname := args[0]

	if optVerbose {
		_ = flag.Set("v", "1")
		_ = flag.Set("logtostderr", "true")
	}

	registry := prometheus.NewRegistry()
	collectors := diag.NewCollectors(registry)

	if optMetricsAddr != "" {
		go serveDiagnostics(optMetricsAddr, registry)
	}

	conn, err := net.Dial("tcp", fmt.Sprintf("%s:%d", hostname, optPort))
	if err != nil {
		return fmt.Errorf("failed to connect to %s:%d: %w", hostname, optPort, err)
	}

	transport := rfb.NewTCPTransport(conn)
	defer transport.Close()

	cfg := &rfb.ClientConfig{
		Password:  optPassword,
		Des:       vncDes,
		Exclusive: optExclusive,
		Decoders:  rfb.DefaultDecoders(rfb.StdlibInflater{}),
		OnBell: func() {
			fmt.Fprintln(os.Stderr, "\a")
		},
		Diag: collectors,
	}

	session, err := rfb.Connect(transport, cfg)
	if err != nil {
		return err
	}

	for _, name := range optDisable {
		session.Registry().Remove(strings.ToLower(name))
	}

	width, height := session.FramebufferSize()
	glog.Infof("connected to %q (%dx%d)", session.DesktopName(), width, height)

	fb := newPNGFramebuffer(int(width), int(height), rfb.PixelFormat{
		BytesPerPixel: 4,
		Depth:         24,
		BigEndian:     false,
		TrueColor:     true,
		RedMax:        255,
		GreenMax:      255,
		BlueMax:       255,
		RedShift:      16,
		GreenShift:    8,
		BlueShift:     0,
	}, optSnapshotDir)

	if err := session.SetFramebuffer(fb); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		glog.Info("shutting down on signal")
		cancel()
	}()

	return session.Run(ctx)
}

// serveDiagnostics exposes /metrics and /healthz on addr using chi. It
// runs for the life of the process; errors are logged rather than fatal,
// since a scrape endpoint dying shouldn't take the VNC session down with
// it.
func serveDiagnostics(addr string, registry *prometheus.Registry) {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if err := http.ListenAndServe(addr, r); err != nil {
		glog.Errorf("diagnostics server on %s exited: %v", addr, err)
	}
}
