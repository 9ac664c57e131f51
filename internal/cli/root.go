// Package cli implements assetctl, a command-line client for asset.v1.AssetService.
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	assetv1 "asset-hierarchy/api/asset/v1"
)

// DefaultAddr is the server address used when --addr is not given.
const DefaultAddr = "localhost:8080"

// Dialer opens a client to addr. The returned closer releases the connection.
type Dialer func(addr string) (assetv1.AssetServiceClient, io.Closer, error)

// DialGRPC dials addr over plaintext gRPC.
func DialGRPC(addr string) (assetv1.AssetServiceClient, io.Closer, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return assetv1.NewAssetServiceClient(conn), conn, nil
}

type options struct {
	addr    string
	timeout time.Duration
	dial    Dialer
}

// NewRootCmd builds the assetctl command tree. dial is DialGRPC in production.
func NewRootCmd(dial Dialer) *cobra.Command {
	opts := &options{dial: dial}
	root := &cobra.Command{
		Use:   "assetctl",
		Short: "assetctl - client for the asset hierarchy service",
		Long: `assetctl calls asset.v1.AssetService over gRPC and prints the JSON response.

Examples:
  # Resolve the first temperature reading of the first room
  assetctl resolve building.floor.room.temperature

  # Every temperature reading below object 2
  assetctl resolve-relative 2 room.temperature

  # Any RPC with a JSON body
  assetctl call CreateObject '{"name": "Floor 3", "type": "floor", "parent_id": 1}'`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.addr, "addr", DefaultAddr, "AssetService address (host:port)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Per-call timeout")

	root.AddCommand(
		callCmd(opts),
		methodsCmd(),
		treeCmd(opts),
		subtreeCmd(opts),
		resolveCmd(opts),
		resolveRelativeCmd(opts),
		associateCmd(opts),
		pathCmd(opts),
	)
	return root
}

func (o *options) invoke(cmd *cobra.Command, method string, body map[string]any) error {
	in, err := structpb.NewStruct(body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return o.invokeStruct(cmd, method, in)
}

func (o *options) invokeStruct(cmd *cobra.Command, method string, in *structpb.Struct) error {
	client, closer, err := o.dial(o.addr)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
	defer cancel()
	out, err := client.Call(ctx, method, in)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	b, err := assetv1.EncodeJSON(out)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}

func parseID(name, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, s)
	}
	return id, nil
}
