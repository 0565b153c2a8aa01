package main

import "github.com/omp-platform/learning-backend/cmd"

func main() {
	cmd.Execute()
}
