// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Command cache runs a single cache node: it serves the Cache RPC
// service over a configured address, backed by one in-process bounded
// LRU.
package main

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/datawire/dlib/dgroup"
	"github.com/datawire/dlib/dlog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"git.lukeshu.com/distcache/lib/cacheserver"
	"git.lukeshu.com/distcache/lib/rpcapi"
	"git.lukeshu.com/distcache/lib/textui"
)

func main() {
	if err := Main(); err != nil {
		fmt.Fprintf(os.Stderr, "cache: error: %v\n", err)
		os.Exit(1)
	}
}

func Main() error {
	logLevel := textui.LogLevelFlag{Level: dlog.LogLevelInfo}

	var serverKind string
	var cacheKind string
	var capacity int
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Serve one cache node's Get/Put/Ping RPCs",

		SilenceErrors: true,
		SilenceUsage:  true,

		RunE: func(cmd *cobra.Command, args []string) error {
			if serverKind != "grpc" {
				return fmt.Errorf("unsupported --server %q (only \"grpc\" is implemented)", serverKind)
			}
			if cacheKind != "lru" {
				return fmt.Errorf("unsupported --cache %q (only \"lru\" is implemented)", cacheKind)
			}

			logger := logrus.New()
			logger.SetLevel(logLevel.LogrusLevel())
			ctx := dlog.WithLogger(cmd.Context(), dlog.WrapLogrus(logger))

			grp := dgroup.NewGroup(ctx, dgroup.GroupConfig{
				EnableSignalHandling: true,
			})
			grp.Go("grpc", func(ctx context.Context) error {
				return serve(ctx, host, port, capacity)
			})
			return grp.Wait()
		},
	}
	cmd.Flags().StringVar(&serverKind, "server", "grpc", "RPC transport to serve (only grpc is implemented)")
	cmd.Flags().StringVar(&cacheKind, "cache", "lru", "eviction policy to use (only lru is implemented)")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "maximum number of entries (0 uses the default)")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "address to listen on")
	cmd.Flags().IntVar(&port, "port", 9000, "port to listen on")
	cmd.PersistentFlags().Var(&logLevel, "verbosity", "set the log verbosity")

	return cmd.ExecuteContext(context.Background())
}

func serve(ctx context.Context, host string, port, capacity int) error {
	addr := net.JoinHostPort(host, fmt.Sprint(port))
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := grpc.NewServer(rpcapi.ServerOption())
	rpcapi.RegisterCacheServer(srv, cacheserver.New(capacity))

	dlog.Infof(ctx, "serving cache node on %s (capacity=%d)", addr, capacity)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(lis) }()

	select {
	case <-ctx.Done():
		dlog.Infof(ctx, "shutting down")
		srv.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}
