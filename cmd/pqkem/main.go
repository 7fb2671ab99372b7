package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"pqcrystals/kem"
	"pqcrystals/keystore"
)

const scheme = "kem"

func usage() {
	fmt.Println(`usage: pqkem <gen|encap|decap> [options]

Subcommands:
  gen      Generate a key pair and write <dir>/{public,private}.json
           Flags:
             -dir <path>   key directory (default: pq_keys)

  encap    Encapsulate against <dir>/public.json
           Flags:
             -dir <path>   key directory (default: pq_keys)
             -ct  <path>   ciphertext output file (default: <dir>/ciphertext.hex)
           Output (stdout): shared secret, hex

  decap    Decapsulate a ciphertext with <dir>/private.json
           Flags:
             -dir <path>   key directory (default: pq_keys)
             -ct  <path>   ciphertext input file (default: <dir>/ciphertext.hex)
           Output (stdout): shared secret, hex`)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "gen":
		runGen(os.Args[2:])
	case "encap":
		runEncap(os.Args[2:])
	case "decap":
		runDecap(os.Args[2:])
	default:
		usage()
	}
}

func runGen(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	dir := fs.String("dir", keystore.DefaultDir, "key directory")
	fs.Parse(args)

	pk, sk, err := kem.GenerateKeyPair()
	if err != nil {
		log.Fatalf("keygen: %v", err)
	}
	if err := keystore.SavePublic(*dir, scheme, pk.Bytes()); err != nil {
		log.Fatalf("save public: %v", err)
	}
	if err := keystore.SavePrivate(*dir, scheme, sk.Bytes()); err != nil {
		log.Fatalf("save private: %v", err)
	}
	fmt.Printf("wrote %s/public.json (%d bytes) and %s/private.json (%d bytes)\n",
		*dir, kem.PublicKeySize, *dir, kem.PrivateKeySize)
}

func runEncap(args []string) {
	fs := flag.NewFlagSet("encap", flag.ExitOnError)
	dir := fs.String("dir", keystore.DefaultDir, "key directory")
	ctPath := fs.String("ct", "", "ciphertext output file")
	fs.Parse(args)
	if *ctPath == "" {
		*ctPath = *dir + "/ciphertext.hex"
	}

	pk, err := keystore.LoadPublic(*dir, scheme)
	if err != nil {
		log.Fatalf("load public: %v", err)
	}
	ct, ss, err := kem.Encapsulate(pk)
	if err != nil {
		log.Fatalf("encapsulate: %v", err)
	}
	if err := os.WriteFile(*ctPath, []byte(hex.EncodeToString(ct)+"\n"), 0o644); err != nil {
		log.Fatalf("write ciphertext: %v", err)
	}
	fmt.Println(hex.EncodeToString(ss))
}

func runDecap(args []string) {
	fs := flag.NewFlagSet("decap", flag.ExitOnError)
	dir := fs.String("dir", keystore.DefaultDir, "key directory")
	ctPath := fs.String("ct", "", "ciphertext input file")
	fs.Parse(args)
	if *ctPath == "" {
		*ctPath = *dir + "/ciphertext.hex"
	}

	sk, err := keystore.LoadPrivate(*dir, scheme)
	if err != nil {
		log.Fatalf("load private: %v", err)
	}
	raw, err := os.ReadFile(*ctPath)
	if err != nil {
		log.Fatalf("read ciphertext: %v", err)
	}
	ct, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		log.Fatalf("decode ciphertext: %v", err)
	}
	ss, err := kem.Decapsulate(ct, sk)
	if err != nil {
		log.Fatalf("decapsulate: %v", err)
	}
	fmt.Println(hex.EncodeToString(ss))
}
