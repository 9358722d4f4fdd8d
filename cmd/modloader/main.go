// Command modloader is a small demonstration host for the mod loading
// pipeline: point it at a directory of mod folders and it prints the
// resolved load order, or explains why each mod failed.
package main

func main() {
	Execute()
}
