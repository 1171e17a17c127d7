package cmd

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/spf13/viper"
)

// LoadConfig merges the yaml config file fileName into v. Keys match the global flag
// names, e.g.
//
//	engine: bls12-381-g2
//	hash: sha3-256
//	log-level: info
func LoadConfig(v *viper.Viper, fileName string) error {
	confPath, fileNameOnly := filepath.Split(fileName)
	fileSuffix := path.Ext(fileName)
	confName := fileNameOnly[0 : len(fileNameOnly)-len(fileSuffix)]
	if confPath == "" {
		confPath = "."
	}

	v.SetConfigName(confName)
	v.AddConfigPath(confPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to load config %s: %w", fileName, err)
	}
	return nil
}
