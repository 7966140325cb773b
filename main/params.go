// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"flag"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ava-labs/ledgervm/ledgervm"
)

const (
	versionKey                 = "version"
	configFileKey              = "config-file"
	httpHostKey                = "http-host"
	httpPortKey                = "http-port"
	dbDirKey                   = "db-dir"
	logLevelKey                = "log-level"
	genesisFileKey             = "genesis-file"
	blockRewardKey             = "block-reward"
	legacyRecipientSequenceKey = "legacy-recipient-sequence"
)

func buildFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet(ledgervm.Name, flag.ContinueOnError)

	fs.Bool(versionKey, false, "If true, prints version and quit")
	fs.String(configFileKey, "", "Config file (any format viper reads); flags take precedence")
	fs.String(httpHostKey, "127.0.0.1", "Address of the HTTP server")
	fs.Uint(httpPortKey, 9650, "Port of the HTTP server")
	fs.String(dbDirKey, "", "Directory of the leveldb chain state. In memory if empty")
	fs.String(logLevelKey, "info", "Log level (crit, error, warn, info, debug)")
	fs.String(genesisFileKey, "", "JSON genesis file, applied the first time the chain state is opened")
	fs.Uint64(blockRewardKey, ledgervm.DefaultBlockReward, "Amount credited to the author of every block")
	fs.Bool(legacyRecipientSequenceKey, false, "Set a payment recipient's sequence number to the sender's")

	return fs
}

// getViper returns the viper environment for the binary
func getViper() (*viper.Viper, error) {
	v := viper.New()

	fs := buildFlagSet()
	pflag.CommandLine.AddGoFlagSet(fs)
	pflag.Parse()
	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}

	if configFile := v.GetString(configFileKey); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("couldn't read config file %s: %w", configFile, err)
		}
	}
	return v, nil
}

// vmConfigBytes returns the VM config selected by [v]
func vmConfigBytes(v *viper.Viper) ([]byte, error) {
	return json.Marshal(ledgervm.Config{
		BlockReward:             v.GetUint64(blockRewardKey),
		LegacyRecipientSequence: v.GetBool(legacyRecipientSequenceKey),
	})
}
