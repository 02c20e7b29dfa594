package minecraft_test

import (
	"fmt"

	"github.com/minepkg/mcinstall/internals/minecraft"
)

func ExampleLaunchManifest_MergeParent() {
	parent := &minecraft.LaunchManifest{
		ID:        "1.18.2",
		MainClass: "net.minecraft.client.main.Main",
		Libraries: []minecraft.Library{
			{Name: "commons-logging:commons-logging:1.2"},
		},
	}
	child := &minecraft.LaunchManifest{
		ID:           "fabric-loader-0.14.9-1.18.2",
		InheritsFrom: "1.18.2",
		MainClass:    "net.fabricmc.loader.impl.launch.knot.KnotClient",
		Libraries: []minecraft.Library{
			{Name: "net.fabricmc:fabric-loader:0.14.9"},
		},
	}
	merged := child.MergeParent(parent)

	fmt.Println("ID:", merged.ID)
	fmt.Println("Jar:", merged.JarName())
	fmt.Println("MainClass:", merged.MainClass)
	fmt.Println("Libraries:")
	for _, lib := range merged.Libraries {
		fmt.Println(" - ", lib.Name)
	}
	// Output:
	// ID: fabric-loader-0.14.9-1.18.2
	// Jar: 1.18.2.jar
	// MainClass: net.fabricmc.loader.impl.launch.knot.KnotClient
	// Libraries:
	//  -  net.fabricmc:fabric-loader:0.14.9
	//  -  commons-logging:commons-logging:1.2
}
