package main

import "rfm-segmentation/cmd"

func main() {
	cmd.Execute()
}
