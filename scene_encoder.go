package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mogaika/scene_encoder/collada"
	"github.com/mogaika/scene_encoder/config"
	"github.com/mogaika/scene_encoder/encerr"
	"github.com/mogaika/scene_encoder/encoder"
	"github.com/mogaika/scene_encoder/fbx"
	"github.com/mogaika/scene_encoder/logger"
	"github.com/mogaika/scene_encoder/output"
	"github.com/mogaika/scene_encoder/source"
	"github.com/mogaika/scene_encoder/web"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] <input.fbx|input.dae>\n", filepath.Base(os.Args[0]))
	flag.PrintDefaults()
	fmt.Fprintf(flag.CommandLine.Output(), "Encodings: %s\n", strings.Join(config.ListEncodings(), ", "))
}

func load(input string, cfg *config.Config) (*source.Document, error) {
	switch ext := strings.ToLower(filepath.Ext(input)); ext {
	case ".fbx":
		return fbx.Load(input, cfg.Names.Charmap())
	case ".dae":
		return collada.Load(input)
	default:
		return nil, encerr.New(encerr.ErrUnsupportedFileFormat, ext)
	}
}

func main() {
	flags := config.NewFlags(flag.CommandLine)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	input := flag.Arg(0)

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	doc, err := load(input, cfg)
	if err != nil {
		logger.Fatal("Failed to load input", zap.String("input", input), zap.Error(err))
	}

	f, err := encoder.Encode(doc, cfg)
	if err != nil {
		logger.Fatal("Failed to encode scene", zap.String("input", input), zap.Error(err))
	}

	if _, err := output.WriteAll(f, cfg, input); err != nil {
		logger.Fatal("Failed to write outputs", zap.Error(err))
	}

	if addr := cfg.Server.Addr; addr != "" {
		name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		if err := web.StartServer(addr, f, name); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}
}
