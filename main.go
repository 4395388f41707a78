package main

import "github.com/tourismcms/tourism-cms/cmd"

func main() {
	cmd.Execute()
}
