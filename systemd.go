package main

import (
	_ "embed"
	"os"
	"text/template"
)

//go:embed digitalpin.service
var serviceEmbed string

type ServiceParams struct {
	BinaryPath string
	User       string
}

func SystemdServiceFile() {
	tmpl := template.New("digitalpin.service")
	tmpl, err := tmpl.Parse(serviceEmbed)
	if err != nil {
		panic(err)
	}

	path, err := os.Executable()
	if err != nil {
		panic(err)
	}

	params := ServiceParams{
		BinaryPath: path,
		User:       "pi",
	}

	err = tmpl.Execute(os.Stdout, params)
	if err != nil {
		panic(err)
	}
}
