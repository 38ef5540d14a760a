// Package main provides the entry point for the ReviewScraper CLI.
package main

func main() {
	Execute()
}
