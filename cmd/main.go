package main

import (
	"fmt"
	"os"

	"github.com/ostafen/fatdisk/cmd/cmd"
	"github.com/ostafen/fatdisk/internal/env"
)

func main() {
	if len(os.Args) < 2 {
		PrintLogo()
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(cmd.ExitCode(err))
	}
}

func PrintLogo() {
	fmt.Println("  __       _      _ _     _    ")
	fmt.Println(" / _| __ _| |_ __| (_)___| | __")
	fmt.Println("| |_ / _` | __/ _` | / __| |/ /")
	fmt.Println("|  _| (_| | || (_| | \\__ \\   < ")
	fmt.Println("|_|  \\__,_|\\__\\__,_|_|___/_|\\_\\")
	fmt.Println()
	fmt.Println("FAT12 disk image tool")
	fmt.Println()
	fmt.Printf("Version:   %s\n", env.Version)
	fmt.Printf("Commit:    %s\n", env.CommitHash)
	fmt.Printf("Build Time: %s\n", env.BuildTime)
	fmt.Println(" ")
}
