package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jerbob92/wazero-moonbridge/generator/generator"
)

var (
	input   *string
	output  *string
	pkgName *string
)

func init() {
	input = flag.String("input", "", "the YAML class table to process")
	output = flag.String("output", "", "the file to write, defaults to the input name with a _gen.go suffix")
	pkgName = flag.String("pkg", os.Getenv("GOPACKAGE"), "the package name of the generated file")
}

func Usage() {
	fmt.Fprintf(os.Stderr, "Usage of wazero-moonbridge/generator:\n")
	fmt.Fprintf(os.Stderr, "\tgenerator -input controls.yaml [-output controls_gen.go] [-pkg controls]\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = Usage
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	target := *output
	if target == "" {
		target = strings.TrimSuffix(*input, filepath.Ext(*input)) + "_gen.go"
	}

	err := generator.Generate(*input, target, *pkgName)
	if err != nil {
		log.Fatal(err)
	}
}
