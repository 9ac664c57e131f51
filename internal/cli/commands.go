package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	assetv1 "asset-hierarchy/api/asset/v1"
)

func callCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "call <method> [json-body]",
		Short: "Call any AssetService method with a JSON object body",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := args[0]
			if !knownMethod(method) {
				return fmt.Errorf("unknown method %q (see assetctl methods)", method)
			}
			var raw []byte
			if len(args) == 2 {
				raw = []byte(args[1])
			}
			in, err := assetv1.DecodeJSON(raw)
			if err != nil {
				return err
			}
			return opts.invokeStruct(cmd, method, in)
		},
	}
}

func knownMethod(name string) bool {
	for _, m := range assetv1.Methods() {
		if m == name {
			return true
		}
	}
	return false
}

func methodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List AssetService methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range assetv1.Methods() {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
}

func treeCmd(opts *options) *cobra.Command {
	var parent int64
	c := &cobra.Command{
		Use:   "tree",
		Short: "Print the object tree (below --parent when given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{}
			if parent > 0 {
				body["parent_id"] = parent
			}
			return opts.invoke(cmd, assetv1.MethodGetTree, body)
		},
	}
	c.Flags().Int64Var(&parent, "parent", 0, "Parent object id")
	return c
}

func subtreeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "subtree <object-id>",
		Short: "Print an object with its descendants and datapoints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("object-id", args[0])
			if err != nil {
				return err
			}
			return opts.invoke(cmd, assetv1.MethodGetSubtree, map[string]any{"object_id": id})
		},
	}
}

func resolveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>",
		Short: "Resolve an absolute type path (first match)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.invoke(cmd, assetv1.MethodResolvePath, map[string]any{"path": args[0]})
		},
	}
}

func resolveRelativeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve-relative <object-id> <path>",
		Short: "Resolve a type path below an object (every match)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("object-id", args[0])
			if err != nil {
				return err
			}
			return opts.invoke(cmd, assetv1.MethodResolveRelative, map[string]any{"object_id": id, "path": args[1]})
		},
	}
}

func associateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "associate <datapoint-id> <object-id>",
		Short: "Make an object the owner of a datapoint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dp, err := parseID("datapoint-id", args[0])
			if err != nil {
				return err
			}
			obj, err := parseID("object-id", args[1])
			if err != nil {
				return err
			}
			return opts.invoke(cmd, assetv1.MethodAssociateDatapoint, map[string]any{"datapoint_id": dp, "object_id": obj})
		},
	}
}

func pathCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "path <object-id>",
		Short: "Print the ancestor name path of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("object-id", args[0])
			if err != nil {
				return err
			}
			return opts.invoke(cmd, assetv1.MethodGetObjectPath, map[string]any{"object_id": id})
		},
	}
}
