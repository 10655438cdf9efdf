// Command pcclean sorts a directory into category folders, optionally
// removing duplicate files, and purges the operating system's temporary
// file locations.
//
// Usage:
//
//	pcclean --directory ~/Downloads --delete-duplicates
//	pcclean --clean-temp --yes
//	pcclean --directory ~/Downloads --clean-temp --schedule --interval 24h
//	pcclean history --limit 20
package main
