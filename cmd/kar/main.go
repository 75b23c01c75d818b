// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/user"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/glhost/utility/kar"
)

func init() {
	currentUserName = "unknown"
	if u, err := user.Current(); err == nil {
		currentUserName = u.Username
	}
}

var (
	currentUserName string
	author          = flag.String("author", "", "Set the author of the package when compressing (default current user)")
	version         = flag.Int64("version", 1, "Archive version number to create it with")
	extract         = flag.String("e", "", "Extract the archive given")
	compress        = flag.String("c", "", "Compress the given folder")
	list            = flag.String("l", "", "List the files of the archive given")
	dstFile         = flag.String("f", "out.kar", "Destination file")
	outDir          = flag.String("o", ".", "Destination folder when extracting")
	silent          = flag.Bool("s", false, "Silent")
)

func main() {
	flag.Parse()

	ops := 0
	for _, op := range []string{*extract, *compress, *list} {
		if op != "" {
			ops++
		}
	}
	if ops > 1 {
		log.Fatal(errors.New("only one operation at a time"))
	}

	var err error
	switch {
	case *compress != "":
		name := *author
		if name == "" {
			name = currentUserName
		}
		err = packDir(*compress, *dstFile, kar.Header{
			Author:      name,
			DateCreated: time.Now().Unix(),
			Version:     *version,
		}, *silent)
	case *extract != "":
		err = extractArchive(*extract, *outDir, *silent)
	case *list != "":
		err = listArchive(*list, os.Stdout)
	default:
		flag.PrintDefaults()
		return
	}
	if err != nil {
		log.Fatal(err)
	}
}

func describe(entry kar.IndexEntry) string {
	return fmt.Sprintf("%10d %10d  %s", entry.Size, entry.CompressedSize, entry.Name)
}
