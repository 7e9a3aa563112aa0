package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/joemunene-by/stegano/pkg/analysis"
	"github.com/joemunene-by/stegano/pkg/crypt"
	"github.com/joemunene-by/stegano/pkg/filehandler"
	"github.com/joemunene-by/stegano/pkg/imgcodec"
	"github.com/joemunene-by/stegano/pkg/payload"
	"github.com/joemunene-by/stegano/pkg/stego"
)

var (
	// Color printers
	infoColor    = color.New(color.FgBlue).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	warningColor = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
)

func printInfo(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", infoColor("[*]"), fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", successColor("[+]"), fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", warningColor("[!]"), fmt.Sprintf(format, args...))
}

func printError(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", errorColor("[-]"), fmt.Sprintf(format, args...))
}

func main() {
	var (
		encodePath   = flag.String("encode", "", "Cover image (path or URL) to embed a message into")
		decodePath   = flag.String("decode", "", "Stego image to recover a message from")
		analyzePath  = flag.String("analyze", "", "Image to analyze for capacity and LSB statistics")
		capacityPath = flag.String("capacity", "", "Image to report embedding capacity for")
		message      = flag.String("m", "", "Message text to embed")
		messageFile  = flag.String("mf", "", "File whose contents to embed")
		outPath      = flag.String("o", "", "Output path (stego image for encode, payload file for decode)")
		passphrase   = flag.String("pass", "", "Passphrase for encryption/decryption")
		promptPass   = flag.Bool("p", false, "Prompt for the passphrase without echo")
		genPassLen   = flag.Int("genpass", 0, "Generate a random passphrase of the given length and exit")
	)

	flag.Parse()

	if *genPassLen > 0 {
		pw, err := crypt.GeneratePassword(*genPassLen)
		if err != nil {
			printError("Failed to generate passphrase: %v", err)
			os.Exit(1)
		}
		fmt.Println(pw)
		return
	}

	if *encodePath == "" && *decodePath == "" && *analyzePath == "" && *capacityPath == "" {
		fmt.Println("Usage:")
		fmt.Println("  stegano -encode <cover> -m <message> [-o <output>] [-pass <passphrase>]")
		fmt.Println("  stegano -decode <image> [-o <output>] [-pass <passphrase>]")
		fmt.Println("  stegano -analyze <image>")
		fmt.Println("  stegano -capacity <image>")
		fmt.Println("  stegano -genpass <length>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *promptPass {
		pw, err := readPassphrase()
		if err != nil {
			printError("Failed to read passphrase: %v", err)
			os.Exit(1)
		}
		*passphrase = pw
	}

	codec := stego.NewCodec()

	switch {
	case *encodePath != "":
		runEncode(codec, *encodePath, *message, *messageFile, *outPath, *passphrase)
	case *decodePath != "":
		runDecode(codec, *decodePath, *outPath, *passphrase)
	case *analyzePath != "":
		runAnalyze(codec, *analyzePath)
	case *capacityPath != "":
		runCapacity(*capacityPath)
	}
}

// readPassphrase reads a passphrase from the terminal without echoing it.
func readPassphrase() (string, error) {
	fmt.Print("Passphrase: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// resolveCover downloads the cover first when it is a URL.
func resolveCover(path string) (string, error) {
	if !filehandler.IsURL(path) {
		return path, nil
	}
	printInfo("Downloading cover image from %s", path)
	local, err := filehandler.DownloadFile(path)
	if err != nil {
		return "", err
	}
	printSuccess("Downloaded to %s", local)
	return local, nil
}

func runEncode(codec *stego.Codec, coverPath, message, messageFile, outPath, passphrase string) {
	coverPath, err := resolveCover(coverPath)
	if err != nil {
		printError("Failed to fetch cover image: %v", err)
		os.Exit(1)
	}

	var msg stego.Message
	switch {
	case messageFile != "":
		data, err := filehandler.ReadFileBytes(messageFile)
		if err != nil {
			printError("Failed to read message file: %v", err)
			os.Exit(1)
		}
		msg = stego.Bytes(payload.WrapFile(filepath.Base(messageFile), data))
	case message != "":
		msg = stego.Text(message)
	default:
		printError("Nothing to embed: provide -m or -mf")
		os.Exit(1)
	}

	carrier, err := imgcodec.DecodeFile(coverPath)
	if err != nil {
		printError("Failed to load cover image: %v", err)
		os.Exit(1)
	}
	printInfo("Cover image: %dx%d, %s channel bytes, capacity %s",
		carrier.Width, carrier.Height,
		humanize.Comma(int64(len(carrier.Pix))),
		humanize.Bytes(uint64(stego.CapacityBytes(len(carrier.Pix)))))

	mutated, err := codec.Encode(carrier.Pix, msg, passphrase)
	if err != nil {
		reportError(err)
		os.Exit(1)
	}

	out, err := carrier.WithPix(mutated)
	if err != nil {
		printError("Internal error: %v", err)
		os.Exit(1)
	}

	if outPath == "" {
		base := filepath.Base(coverPath)
		ext := filepath.Ext(base)
		outPath = "encoded_" + strings.TrimSuffix(base, ext) + ".png"
	}
	if err := imgcodec.EncodeFile(outPath, out); err != nil {
		printError("Failed to write stego image: %v", err)
		os.Exit(1)
	}

	if passphrase != "" {
		printSuccess("Encrypted message embedded into %s", outPath)
	} else {
		printSuccess("Message embedded into %s", outPath)
	}
}

func runDecode(codec *stego.Codec, imagePath, outPath, passphrase string) {
	carrier, err := imgcodec.DecodeFile(imagePath)
	if err != nil {
		printError("Failed to load image: %v", err)
		os.Exit(1)
	}

	decoded, err := codec.Decode(carrier.Pix, passphrase)
	if err != nil {
		reportError(err)
		os.Exit(1)
	}

	classified, err := payload.Classify(decoded)
	if err != nil {
		printError("Recovered payload is malformed: %v", err)
		os.Exit(1)
	}

	switch classified.Type {
	case "binary_file":
		data, err := payload.FileData(classified)
		if err != nil {
			printError("Failed to unpack file payload: %v", err)
			os.Exit(1)
		}
		if outPath == "" {
			outPath = classified.Filename
			if outPath == "" {
				outPath = "decoded_data.bin"
			}
		}
		if err := filehandler.SaveFile(data, outPath); err != nil {
			printError("Failed to save payload: %v", err)
			os.Exit(1)
		}
		printSuccess("Recovered %s (%s) to %s",
			classified.Filename, humanize.Bytes(uint64(len(data))), outPath)

	default:
		if outPath != "" {
			if err := filehandler.SaveFile([]byte(classified.Message), outPath); err != nil {
				printError("Failed to save message: %v", err)
				os.Exit(1)
			}
			printSuccess("Recovered message written to %s", outPath)
			return
		}
		printSuccess("Recovered message:")
		fmt.Println(classified.Message)
	}
}

func runAnalyze(codec *stego.Codec, imagePath string) {
	format, err := filehandler.DetectFileFormat(imagePath)
	if err != nil {
		printError("Failed to detect format: %v", err)
		os.Exit(1)
	}

	carrier, err := imgcodec.DecodeFile(imagePath)
	if err != nil {
		printError("Failed to load image: %v", err)
		os.Exit(1)
	}

	report, err := analysis.BuildReport(filepath.Base(imagePath), format, carrier, codec)
	if err != nil {
		printError("Analysis failed: %v", err)
		os.Exit(1)
	}

	fmt.Println("\n--- Analysis Results ---")
	fmt.Printf("File: %s\n", report.Filename)
	fmt.Printf("Format: %s\n", report.Format)
	fmt.Printf("Dimensions: %dx%d\n", report.Width, report.Height)
	fmt.Printf("Capacity: %s bytes (~ %s)\n",
		humanize.Comma(int64(report.CapacityBytes)),
		humanize.Bytes(uint64(report.CapacityBytes)))
	fmt.Printf("LSB entropy: %.4f\n", report.Entropy)
	fmt.Printf("Chi-square: %.4f\n", report.ChiSquare)

	if report.HasMessage {
		printWarning("A plausible embedded message header was found (heuristic, may false-positive)")
	} else {
		printInfo("No embedded message header found")
	}

	if len(report.Findings) > 0 {
		fmt.Println("\nFindings:")
		for i, finding := range report.Findings {
			fmt.Printf("%d. %s (Confidence: %.2f)\n", i+1, finding.Description, finding.Confidence)
			if finding.Details != "" {
				fmt.Printf("   Details: %s\n", finding.Details)
			}
		}
	}
	fmt.Println("-------------------------")
}

func runCapacity(imagePath string) {
	carrier, err := imgcodec.DecodeFile(imagePath)
	if err != nil {
		printError("Failed to load image: %v", err)
		os.Exit(1)
	}

	capacity := stego.CapacityBytes(len(carrier.Pix))
	fmt.Printf("The image %q can hold a message of up to %s bytes (~ %s)\n",
		imagePath, humanize.Comma(int64(capacity)), humanize.Bytes(uint64(capacity)))
}

// reportError prints a taxonomy-aware message for core failures.
func reportError(err error) {
	var capErr *stego.CapacityError
	var frameErr *stego.FrameError
	var inputErr *stego.InputError
	var cryptoErr *crypt.CryptoError

	switch {
	case errors.As(err, &capErr):
		printError("Message too large: %v", err)
	case errors.As(err, &frameErr):
		printWarning("No hidden message found: %v", err)
	case errors.As(err, &inputErr):
		printError("Bad input: %v", err)
	case errors.As(err, &cryptoErr):
		printError("Crypto failure: %v", err)
	default:
		printError("%v", err)
	}
}
