/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opcfoundation-pubsub/uadp-codec/uadp"
)

func init() {
	RootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Decode a raw UADP NetworkMessage and dump its fields",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ConfigureVerbosity()
		if err := decodeRun(args[0]); err != nil {
			log.Fatal(err)
		}
	},
}

// readFrame reads a raw frame from path, or from stdin when path is "-".
func readFrame(path string) ([]byte, error) {
	if path == "-" {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return src, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return src, nil
}

func decodeRun(path string) error {
	src, err := readFrame(path)
	if err != nil {
		return err
	}

	nm := &uadp.NetworkMessage{}
	pos, err := uadp.DecodeBinary(nm, src, 0)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	spew.Dump(nm)
	fmt.Printf("consumed %d of %d bytes\n", pos, len(src))
	if pos != len(src) {
		log.Warnf("%d trailing bytes were not part of the NetworkMessage", len(src)-pos)
	}
	return nil
}
