// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Command cluster runs a coordinator: it serves the Cluster RPC
// service, routing each Get/Put across a fixed list of downstream
// cache-node clients by rendezvous hashing.
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

	"git.lukeshu.com/distcache/lib/clusterserver"
	netpkg "git.lukeshu.com/distcache/lib/network"
	"git.lukeshu.com/distcache/lib/rpcapi"
	"git.lukeshu.com/distcache/lib/textui"
)

func main() {
	if err := Main(); err != nil {
		fmt.Fprintf(os.Stderr, "cluster: error: %v\n", err)
		os.Exit(1)
	}
}

func Main() error {
	logLevel := textui.LogLevelFlag{Level: dlog.LogLevelInfo}

	var serverKind string
	var host string
	var port int
	var nodeAddrs []string

	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Serve the cluster coordinator's Get/Put RPCs",

		SilenceErrors: true,
		SilenceUsage:  true,

		RunE: func(cmd *cobra.Command, args []string) error {
			if serverKind != "grpc" {
				return fmt.Errorf("unsupported --server %q (only \"grpc\" is implemented)", serverKind)
			}
			if len(nodeAddrs) == 0 {
				return fmt.Errorf("--nodes requires at least one address")
			}

			logger := logrus.New()
			logger.SetLevel(logLevel.LogrusLevel())
			ctx := dlog.WithLogger(cmd.Context(), dlog.WrapLogrus(logger))

			cn, err := buildNetwork(ctx, nodeAddrs)
			if err != nil {
				return err
			}

			grp := dgroup.NewGroup(ctx, dgroup.GroupConfig{
				EnableSignalHandling: true,
			})
			grp.Go("grpc", func(ctx context.Context) error {
				return serve(ctx, host, port, cn)
			})
			return grp.Wait()
		},
	}
	cmd.Flags().StringVar(&serverKind, "server", "grpc", "RPC transport to serve (only grpc is implemented)")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "address to listen on")
	cmd.Flags().IntVar(&port, "port", 9100, "port to listen on")
	cmd.Flags().StringArrayVar(&nodeAddrs, "nodes", nil, "downstream cache node `host:port` (repeatable)")
	cmd.PersistentFlags().Var(&logLevel, "verbosity", "set the log verbosity")

	return cmd.ExecuteContext(context.Background())
}

// buildNetwork parses every --nodes address into a ServerNode, in the
// order given: that order is the rendezvous tie-break, so it must be
// preserved rather than sorted or deduplicated.
func buildNetwork(ctx context.Context, addrs []string) (*netpkg.CacheNetwork, error) {
	nodes := make([]*netpkg.ServerNode, 0, len(addrs))
	for _, addr := range addrs {
		n, err := netpkg.ParseNode(ctx, addr, 1)
		if err != nil {
			return nil, fmt.Errorf("--nodes %q: %w", addr, err)
		}
		nodes = append(nodes, n)
	}
	return netpkg.NewCacheNetwork(nodes), nil
}

func serve(ctx context.Context, host string, port int, cn *netpkg.CacheNetwork) error {
	addr := net.JoinHostPort(host, fmt.Sprint(port))
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := grpc.NewServer(rpcapi.ServerOption())
	rpcapi.RegisterClusterServer(srv, clusterserver.New(cn))

	dlog.Infof(ctx, "serving cluster coordinator on %s", addr)

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
