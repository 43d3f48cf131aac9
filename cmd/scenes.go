package cmd

import (
	"bytes"
	"fmt"

	"github.com/df07/go-raydiance/pkg/scene"
	"github.com/df07/go-raydiance/pkg/sky"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List built-in scenes and sky models.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	writeSceneTable(&buf)
	buf.WriteString("\n")
	writeSkyTable(&buf)

	logger.Noticef("available scenes\n%s", buf.String())
	return nil
}

func writeSceneTable(buf *bytes.Buffer) {
	table := tablewriter.NewWriter(buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Group", "Scene", "Name", "Triangles", "Description"})
	for _, group := range scene.ListGroups() {
		for _, info := range group.Scenes {
			triangles := "-"
			if s, err := scene.Builtin(info.ID); err == nil {
				triangles = fmt.Sprintf("%d", s.TriangleCount())
			}
			table.Append([]string{group.Name, info.ID, info.DisplayName, triangles, info.Description})
		}
	}
	table.Render()
}

func writeSkyTable(buf *bytes.Buffer) {
	table := tablewriter.NewWriter(buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Sky model", "Description"})
	for _, name := range sky.Models() {
		table.Append([]string{name, sky.Describe(name)})
	}
	table.Render()
}
