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
	"bytes"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opcfoundation-pubsub/uadp-codec/uadp"
)

var roundtripOutFlag string

func init() {
	RootCmd.AddCommand(roundtripCmd)
	roundtripCmd.Flags().StringVarP(&roundtripOutFlag, "out", "o", "", "write the re-encoded message to this path instead of just comparing")
}

var roundtripCmd = &cobra.Command{
	Use:   "roundtrip [file]",
	Short: "Decode a NetworkMessage and re-encode it, checking the bytes match",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ConfigureVerbosity()
		if err := roundtripRun(args[0]); err != nil {
			log.Fatal(err)
		}
	},
}

func roundtripRun(path string) error {
	src, err := readFrame(path)
	if err != nil {
		return err
	}

	nm := &uadp.NetworkMessage{}
	if _, err := uadp.DecodeBinary(nm, src, 0); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	size, err := uadp.CalcSizeBinary(nm)
	if err != nil {
		return fmt.Errorf("sizing decoded message: %w", err)
	}
	out := make([]byte, size)
	if _, err := uadp.EncodeBinary(nm, out, 0); err != nil {
		return fmt.Errorf("re-encoding decoded message: %w", err)
	}

	if roundtripOutFlag != "" {
		if err := os.WriteFile(roundtripOutFlag, out, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", roundtripOutFlag, err)
		}
	}

	if !bytes.Equal(src[:size], out) {
		return fmt.Errorf("round-trip mismatch: input and re-encoded bytes differ")
	}
	fmt.Printf("round-trip OK, %d bytes\n", size)
	return nil
}
