// Copyright 2024 The Merkle Tree Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command merklectl drives a single in-process Tree from the command line:
// it keeps no daemon and no network listener, persisting state between
// invocations solely through the serialized tree file named by -state.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/urfave/cli/v2"

	"github.com/transparencylog/merkletree/merkletree"
)

func main() {
	app := &cli.App{
		Name:  "merklectl",
		Usage: "inspect and drive an append-only Merkle tree from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "state",
				Aliases: []string{"s"},
				Usage:   "path to the serialized tree file",
				Value:   "tree.state",
			},
		},
		Commands: []*cli.Command{
			createCommand,
			insertCommand,
			rootCommand,
			pathCommand,
			verifyCommand,
			flushCommand,
			retractCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		glog.Exitf("merklectl: %v", err)
	}
}

var createCommand = &cli.Command{
	Name:  "create",
	Usage: "create a new tree with a single leaf and write it to -state",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "leaf", Required: true, Usage: "hex-encoded initial leaf digest"},
	},
	Action: func(c *cli.Context) error {
		leaf, err := decodeHexDigest(c.String("leaf"))
		if err != nil {
			return err
		}
		t, err := merkletree.NewTree(leaf)
		if err != nil {
			return err
		}
		defer t.Close()
		return saveTree(c.String("state"), t)
	},
}

var insertCommand = &cli.Command{
	Name:  "insert",
	Usage: "append a new leaf to the tree in -state",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "leaf", Required: true, Usage: "hex-encoded leaf digest"},
	},
	Action: func(c *cli.Context) error {
		t, err := loadTree(c.String("state"))
		if err != nil {
			return err
		}
		defer t.Close()
		leaf, err := decodeHexDigest(c.String("leaf"))
		if err != nil {
			return err
		}
		if !t.InsertPre(leaf) {
			return fmt.Errorf("merklectl: leaf cannot be inserted in the tree's current state")
		}
		t.Insert(leaf)
		return saveTree(c.String("state"), t)
	},
}

var rootCommand = &cli.Command{
	Name:  "root",
	Usage: "print the current root of the tree in -state",
	Action: func(c *cli.Context) error {
		t, err := loadTree(c.String("state"))
		if err != nil {
			return err
		}
		defer t.Close()
		root := t.GetRoot()
		fmt.Println(hex.EncodeToString(root))
		return saveTree(c.String("state"), t)
	},
}

var pathCommand = &cli.Command{
	Name:  "path",
	Usage: "print the inclusion path for a leaf index",
	Flags: []cli.Flag{
		&cli.Uint64Flag{Name: "index", Required: true, Usage: "global leaf index"},
	},
	Action: func(c *cli.Context) error {
		t, err := loadTree(c.String("state"))
		if err != nil {
			return err
		}
		defer t.Close()
		idx := c.Uint64("index")
		if !t.GetPathPre(idx) {
			return fmt.Errorf("merklectl: index %d is not in the tree's retained window", idx)
		}
		path, root, max := t.GetPath(idx)
		fmt.Printf("root: %s\n", hex.EncodeToString(root))
		fmt.Printf("max:  %d\n", max)
		for i := 0; i < path.Len(); i++ {
			fmt.Printf("path[%d]: %s\n", i, hex.EncodeToString(path.At(i)))
		}
		return saveTree(c.String("state"), t)
	},
}

var verifyCommand = &cli.Command{
	Name:  "verify",
	Usage: "verify a leaf's inclusion path against a root (does not require -state to hold the originating tree)",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "leaf", Required: true, Usage: "hex-encoded leaf digest, path entry 0"},
		&cli.StringSliceFlag{Name: "sibling", Usage: "hex-encoded path sibling, in order (repeatable)"},
		&cli.Uint64Flag{Name: "index", Required: true, Usage: "leaf index relative to the tree's offset"},
		&cli.Uint64Flag{Name: "max", Required: true, Usage: "tree size the path was generated against"},
		&cli.StringFlag{Name: "root", Required: true, Usage: "hex-encoded expected root"},
	},
	Action: func(c *cli.Context) error {
		t, err := loadTree(c.String("state"))
		if err != nil {
			return err
		}
		defer t.Close()

		leaf, err := decodeHexDigest(c.String("leaf"))
		if err != nil {
			return err
		}
		root, err := decodeHexDigest(c.String("root"))
		if err != nil {
			return err
		}
		path := merkletree.NewPath(t.HashSize())
		path.Append(leaf)
		for _, s := range c.StringSlice("sibling") {
			d, err := decodeHexDigest(s)
			if err != nil {
				return err
			}
			path.Append(d)
		}

		k := uint32(c.Uint64("index"))
		max := uint32(c.Uint64("max"))
		if !t.VerifyPre(path, k, max) {
			return fmt.Errorf("merklectl: supplied path does not match the expected length for index %d of %d", k, max)
		}
		if t.Verify(path, k, max, root) {
			fmt.Println("OK")
			return nil
		}
		return fmt.Errorf("merklectl: verification failed")
	},
}

var flushCommand = &cli.Command{
	Name:  "flush",
	Usage: "discard retained leaves strictly before -index (or all but the rightmost leaf if -index is omitted)",
	Flags: []cli.Flag{
		&cli.Uint64Flag{Name: "index", Usage: "global leaf index to flush up to"},
		&cli.BoolFlag{Name: "all", Usage: "flush to the minimum retention (rightmost leaf only)"},
	},
	Action: func(c *cli.Context) error {
		t, err := loadTree(c.String("state"))
		if err != nil {
			return err
		}
		defer t.Close()
		if c.Bool("all") || !c.IsSet("index") {
			t.Flush()
		} else {
			t.FlushTo(c.Uint64("index"))
		}
		return saveTree(c.String("state"), t)
	},
}

var retractCommand = &cli.Command{
	Name:  "retract",
	Usage: "roll the tree back, discarding every leaf at or beyond -index+1",
	Flags: []cli.Flag{
		&cli.Uint64Flag{Name: "index", Required: true, Usage: "global leaf index to retract to"},
	},
	Action: func(c *cli.Context) error {
		t, err := loadTree(c.String("state"))
		if err != nil {
			return err
		}
		defer t.Close()
		t.RetractTo(c.Uint64("index"))
		return saveTree(c.String("state"), t)
	},
}

func decodeHexDigest(s string) (merkletree.Digest, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("merklectl: invalid hex digest %q: %w", s, err)
	}
	return merkletree.Digest(b), nil
}

func loadTree(path string) (*merkletree.Tree, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("merklectl: reading state file: %w", err)
	}
	t, err := merkletree.Deserialize(merkletree.DefaultHashSize(), buf, merkletree.DefaultHashFunc())
	if err != nil {
		return nil, fmt.Errorf("merklectl: decoding state file %s: %w", path, err)
	}
	return t, nil
}

func saveTree(path string, t *merkletree.Tree) error {
	size := t.SerializeSize()
	buf := make([]byte, size)
	n := t.Serialize(buf)
	if n == 0 {
		return fmt.Errorf("merklectl: serializing tree: buffer too small")
	}
	if err := os.WriteFile(path, buf[:n], 0o600); err != nil {
		return fmt.Errorf("merklectl: writing state file: %w", err)
	}
	return nil
}
