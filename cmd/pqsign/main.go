package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"pqcrystals/dsa"
	"pqcrystals/keystore"
	"pqcrystals/measure"
)

const scheme = "dsa"

func usage() {
	fmt.Println(`usage: pqsign <gen|sign|verify> [options]

Subcommands:
  gen      Generate a key pair and write <dir>/{public,private}.json
           Flags:
             -dir <path>     key directory (default: pq_keys)

  sign     Sign a message and write <dir>/signature.json
           Flags:
             -m   <string>   message to sign (required)
             -dir <path>     key directory (default: pq_keys)
             -v              verbose: print rejection-loop telemetry

  verify   Verify <dir>/signature.json against the embedded public key
           Flags:
             -dir <path>     key directory (default: pq_keys)
           Exit status 0 when valid, 1 otherwise`)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "gen":
		runGen(os.Args[2:])
	case "sign":
		runSign(os.Args[2:])
	case "verify":
		runVerify(os.Args[2:])
	default:
		usage()
	}
}

func runGen(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	dir := fs.String("dir", keystore.DefaultDir, "key directory")
	fs.Parse(args)

	pk, sk, err := dsa.GenerateKeyPair()
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
		*dir, dsa.PublicKeySize, *dir, dsa.PrivateKeySize)
}

func runSign(args []string) {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	msg := fs.String("m", "", "message to sign (required)")
	dir := fs.String("dir", keystore.DefaultDir, "key directory")
	verbose := fs.Bool("v", false, "print rejection-loop telemetry")
	fs.Parse(args)
	if *msg == "" {
		log.Fatal("sign: -m is required")
	}

	sk, err := keystore.LoadPrivate(*dir, scheme)
	if err != nil {
		log.Fatalf("load private: %v", err)
	}
	pk, err := keystore.LoadPublic(*dir, scheme)
	if err != nil {
		log.Fatalf("load public: %v", err)
	}

	sig, err := dsa.Sign(sk, []byte(*msg))
	if err != nil {
		log.Fatalf("sign: %v", err)
	}

	bundle := keystore.NewSignatureBundle(scheme)
	bundle.Message = hex.EncodeToString([]byte(*msg))
	bundle.PublicKey = hex.EncodeToString(pk)
	bundle.Signature = hex.EncodeToString(sig)
	if err := keystore.SaveSignature(*dir, bundle); err != nil {
		log.Fatalf("save signature: %v", err)
	}

	stats := measure.Global.SnapshotAndReset()
	fmt.Printf("attempts_used=%d\n", stats["dsa/sign/attempts"])
	if *verbose {
		fmt.Printf("hint_weight=%d\n", stats["dsa/sign/hint_weight"])
		fmt.Printf("signature_bytes=%d\n", len(sig))
		fmt.Printf("bundle_bytes=%d\n", stats["keystore/signature/json_file"])
	}
}

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	dir := fs.String("dir", keystore.DefaultDir, "key directory")
	fs.Parse(args)

	bundle, err := keystore.LoadSignature(*dir)
	if err != nil {
		log.Fatalf("load signature: %v", err)
	}
	if bundle.Scheme != scheme {
		log.Fatalf("signature bundle is for scheme %q", bundle.Scheme)
	}
	msg, err := hex.DecodeString(bundle.Message)
	if err != nil {
		log.Fatalf("decode message: %v", err)
	}
	pk, err := hex.DecodeString(bundle.PublicKey)
	if err != nil {
		log.Fatalf("decode public key: %v", err)
	}
	sig, err := hex.DecodeString(bundle.Signature)
	if err != nil {
		log.Fatalf("decode signature: %v", err)
	}

	if !dsa.Verify(pk, msg, sig) {
		fmt.Println("verify: FAILED")
		os.Exit(1)
	}
	fmt.Println("verify: OK")
}
